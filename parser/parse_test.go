// Copyright 2025 the Quel authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package parser

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/quelang/quel/ast"
)

// roundTrip parses in, checks that the AST prints as
// want, then reparses the printed form and checks that
// the two trees are equal.
func roundTrip(t *testing.T, in, want string) {
	t.Helper()
	first, err := ParseFragment(in)
	if err != nil {
		t.Fatalf("parse %q: %s", in, err)
	}
	got := ast.ToString(first)
	if got != want {
		t.Fatalf("parse %q: printed as %q, want %q", in, got, want)
	}
	second, err := ParseFragment(got)
	if err != nil {
		t.Fatalf("reparse %q: %s", got, err)
	}
	if !ast.Equal(first, second) {
		t.Fatalf("parse %q: reparse of %q produced a different tree", in, got)
	}
}

func TestRoundTrip(t *testing.T) {
	// inputs that print exactly as written
	same := []string{
		"a",
		"a.b",
		"a.b.c",
		".b",
		"a.<b",
		"a@b",
		"x.1.2",
		"x.1.2.3",
		"a.b(c)",
		"a.__type__",
		"__source__",
		"__subject__.name",
		"mod1::mod2::name",
		"mod::f(x)",
		"f()",
		"f(1, 2)",
		"f(a := 1)",
		"f(1, a := 2, b := 3)",
		"f($x)",
		"f(g(x), h(y))",
		"$param",
		"123",
		"1.5",
		"1e3",
		"123n",
		"1.5n",
		"'hi'",
		"b'hi'",
		"true",
		"false",
		"{}",
		"{1}",
		"{1, 2, 3}",
		"{a, b.c, f(1)}",
		"SELECT f()",
		"SELECT a.b",
		"SELECT {1, 2}",
		"FOR x IN {1, 2} UNION x",
		"FOR x IN f() UNION x.name",
		"<int64>x",
		"<int64>x.y",
		"<mod::T>x",
		"<array<int64>>x",
		"<tuple<a: int64, b: str>>x",
		"<tuple<int64, str>>x",
		"<tuple<'a', 'b'>>x",
		"<a | b>x",
		"<(a | b) & c>x",
		"<TYPEOF y>x",
		"INTROSPECT int64",
		"INTROSPECT array<int64>",
		"INTROSPECT TYPEOF a.b",
		"f(x).y",
		"<T>(a.b)",
		"(1).2",
		"(<T>1).2",
		"(INTROSPECT TYPEOF 1).2",
		"(INTROSPECT TYPEOF x.1).2",
	}
	for _, q := range same {
		t.Run(q, func(t *testing.T) {
			roundTrip(t, q, q)
		})
	}

	// inputs that normalize while parsing
	norm := []struct {
		in, out string
	}{
		{"select f( )", "SELECT f()"},
		{"SeLeCt 1", "SELECT 1"},
		{"for x in {1} union x", "FOR x IN {1} UNION x"},
		{"(a)", "a"},
		{"(a).b", "a.b"},
		{"{1, 2,}", "{1, 2}"},
		{"f(1, 2,)", "f(1, 2)"},
		{"f(b := 2, a := 1)", "f(a := 1, b := 2)"},
		{"a . b", "a.b"},
		{"introspect typeof x", "INTROSPECT TYPEOF x"},
		{"<a|b&c>x", "<a | (b & c)>x"},
		{"<a&b|c>x", "<(a & b) | c>x"},
		{"SELECT 'a\\nb'", "SELECT 'a\\nb'"},
		{"r'a\\nb'", "'a\\\\nb'"},
		{"# comment\nSELECT 1", "SELECT 1"},
	}
	for _, tc := range norm {
		t.Run(tc.in, func(t *testing.T) {
			roundTrip(t, tc.in, tc.out)
		})
	}
}

func TestFragmentShapes(t *testing.T) {
	tests := []struct {
		in   string
		want ast.Node
	}{
		{
			"SELECT f()",
			&ast.SelectQuery{Result: &ast.FunctionCall{
				Func: &ast.ObjectRef{Name: "f"},
			}},
		},
		{
			"a.b(c)",
			&ast.Path{Steps: []ast.Node{
				&ast.ObjectRef{Name: "a"},
				&ast.FunctionCall{
					Func: &ast.ObjectRef{Name: "b"},
					Args: []ast.Node{&ast.Path{Steps: []ast.Node{
						&ast.ObjectRef{Name: "c"},
					}}},
				},
			}},
		},
		{
			"<T>x.y",
			&ast.Path{Steps: []ast.Node{
				&ast.TypeCast{
					Type: &ast.TypeName{Maintype: &ast.ObjectRef{Name: "T"}},
					Expr: &ast.Path{Steps: []ast.Node{&ast.ObjectRef{Name: "x"}}},
				},
				&ast.Ptr{Name: "y"},
			}},
		},
		{
			"x.1.2",
			&ast.Path{Steps: []ast.Node{
				&ast.ObjectRef{Name: "x"},
				&ast.Ptr{Name: "1"},
				&ast.Ptr{Name: "2"},
			}},
		},
		{
			"mod1::mod2::name",
			&ast.Path{Steps: []ast.Node{
				&ast.ObjectRef{Module: "mod1::mod2", Name: "name"},
			}},
		},
		{
			"FOR x IN {1} UNION x",
			&ast.ForQuery{
				Alias:    "x",
				Iterator: &ast.Set{Elements: []ast.Node{&ast.IntegerConstant{Value: 1}}},
				Result:   &ast.Path{Steps: []ast.Node{&ast.ObjectRef{Name: "x"}}},
			},
		},
		{
			".b",
			&ast.Path{
				Steps:   []ast.Node{&ast.Ptr{Name: "b"}},
				Partial: true,
			},
		},
		{
			"a.<b",
			&ast.Path{Steps: []ast.Node{
				&ast.ObjectRef{Name: "a"},
				&ast.Ptr{Name: "b", Direction: ast.Inbound},
			}},
		},
		{
			"a@b",
			&ast.Path{Steps: []ast.Node{
				&ast.ObjectRef{Name: "a"},
				&ast.Ptr{Name: "b", Property: true},
			}},
		},
		{
			"__source__",
			&ast.Path{Steps: []ast.Node{&ast.ObjectRef{Name: "__source__"}}},
		},
		{
			"`select`.b",
			&ast.Path{Steps: []ast.Node{
				&ast.ObjectRef{Name: "select"},
				&ast.Ptr{Name: "b"},
			}},
		},
		{
			"f(1, a := 2)",
			&ast.FunctionCall{
				Func:   &ast.ObjectRef{Name: "f"},
				Args:   []ast.Node{&ast.IntegerConstant{Value: 1}},
				KwArgs: map[string]ast.Node{"a": &ast.IntegerConstant{Value: 2}},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFragment(tc.in)
			if err != nil {
				t.Fatalf("parse %q: %s", tc.in, err)
			}
			if !ast.Equal(got, tc.want) {
				t.Errorf("parse %q: got %s", tc.in, ast.ToString(got))
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		in  string
		msg string
	}{
		{"SELECT f(a := 1, 2)", "positional argument after named argument `a`"},
		{"f(a := 1, b := 2, 3)", "positional argument after named argument `b`"},
		{"f(a := 1, a := 2)", "duplicate named argument `a`"},
		{"f($1 := 1)", "numeric named arguments are not supported"},
		{"f($a := 1)", "named arguments do not need a '$' prefix, rewrite as 'a := ...'"},
		{"SELECT __foo__", "identifiers surrounded by double underscores are forbidden"},
		{"__foo__.b", "identifiers surrounded by double underscores are forbidden"},
		{"x.1.a", "invalid tuple index"},
		{"<name<>>x", "type parametrization requires at least one argument"},
		{"INTROSPECT tuple<a: int64, str>", "mixing named and unnamed subtype declarations is not supported"},
		{"INTROSPECT tuple<1, int64>", "subtype declarations cannot be mixed with literal type arguments"},
		{"SELECT", "unexpected"},
		{"a b", "unexpected"},
		{"f(", "unexpected"},
		{"select select", "unexpected"},
		{"x.", "unexpected"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			_, err := ParseFragment(tc.in)
			if err == nil {
				t.Fatalf("parse %q: expected an error", tc.in)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("parse %q: error %q does not mention %q", tc.in, err, tc.msg)
			}
		})
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	in := "SELECT f(a := 1, 2)"
	_, err := ParseFragment(in)
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("got %T, want *SyntaxError", err)
	}
	if se.Start < uint32(strings.IndexByte(in, '2')) {
		t.Errorf("error span %d..%d does not cover the offending argument", se.Start, se.End)
	}
	if !strings.Contains(se.Error(), "at offset") {
		t.Errorf("unexpected rendering %q", se.Error())
	}
}

func TestExpectedTokens(t *testing.T) {
	_, err := ParseFragment("f(1,")
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("got %T, want *SyntaxError", err)
	}
	if len(se.Expected) == 0 {
		t.Fatal("expected-token set is empty")
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []string{
		"'abc",
		"`abc",
		"``",
		"$",
		"'a\\qb'",
		"9999999999999999999999",
		"?",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := ParseFragment(in)
			if err == nil {
				t.Fatalf("parse %q: expected an error", in)
			}
		})
	}
}

func TestParseBlock(t *testing.T) {
	tests := []struct {
		in    string
		stmts int
		text  string
	}{
		{"", 0, ""},
		{";;", 0, ""},
		{"SELECT 1", 1, "SELECT 1"},
		{"SELECT 1;", 1, "SELECT 1"},
		{";; SELECT 1 ;;", 1, "SELECT 1"},
		{"SELECT 1; SELECT 2", 2, "SELECT 1; SELECT 2"},
		{"SELECT 1;; SELECT 2;", 2, "SELECT 1; SELECT 2"},
		{"a.b; FOR x IN {1} UNION x; f()", 3, "a.b; FOR x IN {1} UNION x; f()"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			b, err := ParseBlock(tc.in)
			if err != nil {
				t.Fatalf("parse %q: %s", tc.in, err)
			}
			if len(b.Statements) != tc.stmts {
				t.Fatalf("parse %q: %d statements, want %d", tc.in, len(b.Statements), tc.stmts)
			}
			if got := b.Text(); got != tc.text {
				t.Errorf("parse %q: printed as %q, want %q", tc.in, got, tc.text)
			}
		})
	}
}

// grammar compilation and parsing must be safe to race
// from multiple goroutines
func TestConcurrentParse(t *testing.T) {
	inputs := []string{
		"SELECT f()",
		"a.b.c",
		"<int64>x.y",
		"FOR x IN {1, 2} UNION x",
		"f(1, a := 2)",
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				in := inputs[j%len(inputs)]
				node, err := ParseFragment(in)
				if err != nil {
					t.Errorf("parse %q: %s", in, err)
					return
				}
				if got := ast.ToString(node); got != in {
					t.Errorf("parse %q: printed as %q", in, got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func FuzzParseFragment(f *testing.F) {
	seeds := []string{
		"SELECT f()",
		"a.b(c)",
		"<tuple<a: int64>>x.y",
		"FOR x IN {1, 2} UNION x.1.2",
		"f(1, a := 2, b := '3')",
		"mod1::mod2::name@prop",
		"# c\n{1.5n, b'x', $p}",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, src string) {
		node, err := ParseFragment(src)
		if err != nil {
			return
		}
		printed := ast.ToString(node)
		again, err := ParseFragment(printed)
		if err != nil {
			t.Fatalf("%q parsed but its printed form %q does not: %s", src, printed, err)
		}
		if !ast.Equal(node, again) {
			t.Fatalf("%q and its printed form %q parse differently", src, printed)
		}
	})
}

var benchq = []string{
	"SELECT User.name",
	"a.b(c).d@e.<f",
	"std::array_agg(x, cardinality := 'many')",
	"<tuple<a: int64, b: str>>{$p, 1.5n, b'bytes'}",
	"FOR x IN {1, 2, 3} UNION x.1.2",
}

func BenchmarkParseFragment(b *testing.B) {
	for i := range benchq {
		q := benchq[i]
		b.Run(fmt.Sprintf("case-%d", i), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(q)))
			for n := 0; n < b.N; n++ {
				_, err := ParseFragment(q)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkToString(b *testing.B) {
	nodes := make([]ast.Node, len(benchq))
	for i := range benchq {
		var err error
		nodes[i], err = ParseFragment(benchq[i])
		if err != nil {
			b.Fatal(err)
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for i := range nodes {
			_ = ast.ToString(nodes[i])
		}
	}
}
