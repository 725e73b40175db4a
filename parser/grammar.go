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
	"github.com/quelang/quel/ast"
	"github.com/quelang/quel/keywords"
	"github.com/quelang/quel/lr"
)

// kw returns the terminal symbol of a keyword spelling.
func kw(spelling string) lr.Symbol {
	k := kwKind(spelling)
	if k < 0 {
		panic("parser: not a keyword: " + spelling)
	}
	return lr.T(k)
}

// grammarSpec is the grammar plus the handful of
// nonterminals that tests extend it through.
type grammarSpec struct {
	g          *lr.Grammar
	expr       lr.Symbol
	identifier lr.Symbol
	simpleFor  lr.Symbol
}

// newGrammar builds the expression grammar. The caller
// compiles it into a Table with g.Compile.
func newGrammar() *grammarSpec {
	g := lr.New(EOF, tokenName)

	// precedence levels, loosest first
	typeofPrec := g.Precedence(lr.Left, "TYPEOF")
	typeor := g.Precedence(lr.Left, "'|'")
	typeand := g.Precedence(lr.Left, "'&'")
	step := g.Precedence(lr.Left, "'.'")
	cast := g.Precedence(lr.Right, "cast")
	g.TokenPrec(PIPE, typeor)
	g.TokenPrec(AMPER, typeand)
	g.TokenPrec(DOT, step)
	g.TokenPrec(DOTBW, step)
	g.TokenPrec(AT, step)

	block := g.NonTerm("Block")
	optSemis := g.NonTerm("OptSemicolons")
	singleStatement := g.NonTerm("SingleStatement")
	exprStmt := g.NonTerm("ExprStmt")
	simpleFor := g.NonTerm("SimpleFor")
	simpleSelect := g.NonTerm("SimpleSelect")
	expr := g.NonTerm("Expr")
	funcExpr := g.NonTerm("FuncExpr")
	funcApplication := g.NonTerm("FuncApplication")
	optFuncArgList := g.NonTerm("OptFuncArgList")
	funcArgSym := g.NonTerm("FuncArg")
	funcArgName := g.NonTerm("FuncArgName")
	pathStep := g.NonTerm("PathStep")
	pathStepName := g.NonTerm("PathStepName")
	dunderAnchor := g.NonTerm("DunderAnchor")
	nodeName := g.NonTerm("NodeName")
	baseName := g.NonTerm("BaseName")
	qualifiedName := g.NonTerm("QualifiedName")
	identifier := g.NonTerm("Identifier")
	ptrIdentifier := g.NonTerm("PtrIdentifier")
	anyIdentifier := g.NonTerm("AnyIdentifier")
	unreservedKeyword := g.NonTerm("UnreservedKeyword")
	partialReservedKeyword := g.NonTerm("PartialReservedKeyword")
	reservedKeyword := g.NonTerm("ReservedKeyword")
	set := g.NonTerm("Set")
	constant := g.NonTerm("Constant")
	fullTypeExpr := g.NonTerm("FullTypeExpr")
	typeExpr := g.NonTerm("TypeExpr")
	typeName := g.NonTerm("TypeName")
	simpleTypeName := g.NonTerm("SimpleTypeName")
	subtype := g.NonTerm("Subtype")

	semis := g.List("Semicolons", lr.T(SEMICOLON), lr.None)
	stmtBlock := g.List("StatementBlock", singleStatement, semis)
	exprList := g.List("ExprList", expr, lr.T(COMMA))
	funcArgList := g.List("FuncArgList", funcArgSym, lr.T(COMMA))
	colonedIdents := g.List("ColonedIdents", anyIdentifier, lr.T(COLONCOLON))
	subtypeList := g.List("SubtypeList", subtype, lr.T(COMMA))

	g.Start(STARTBLOCK, block)
	g.Start(STARTFRAGMENT, exprStmt)

	g.Rule(block, []lr.Symbol{optSemis}, func(vals []lr.Value) (any, error) {
		return &ast.Block{Span: spanOf(vals)}, nil
	})
	g.Rule(block, []lr.Symbol{optSemis, stmtBlock, optSemis}, func(vals []lr.Value) (any, error) {
		return &ast.Block{Span: spanOf(vals), Statements: nodes(vals[1])}, nil
	})
	g.Rule(optSemis, nil, nil)
	g.Rule(optSemis, []lr.Symbol{semis}, nil)

	g.Rule(singleStatement, []lr.Symbol{exprStmt}, nil)
	g.Rule(exprStmt, []lr.Symbol{simpleFor}, nil)
	g.Rule(exprStmt, []lr.Symbol{simpleSelect}, nil)
	g.Rule(exprStmt, []lr.Symbol{expr}, nil)

	g.Rule(simpleSelect, []lr.Symbol{kw("select"), expr}, func(vals []lr.Value) (any, error) {
		return &ast.SelectQuery{Span: spanOf(vals), Result: node(vals[1])}, nil
	})
	g.Rule(simpleFor,
		[]lr.Symbol{kw("for"), identifier, kw("in"), expr, kw("union"), expr},
		func(vals []lr.Value) (any, error) {
			return &ast.ForQuery{
				Span:     spanOf(vals),
				Alias:    vals[1].Val.(string),
				Iterator: node(vals[3]),
				Result:   node(vals[5]),
			}, nil
		})

	g.Rule(expr, []lr.Symbol{funcExpr}, nil)
	g.RulePrec(expr, []lr.Symbol{nodeName}, step, func(vals []lr.Value) (any, error) {
		ref := vals[0].Val.(*ast.ObjectRef)
		return &ast.Path{Span: spanOf(vals), Steps: []ast.Node{ref}}, nil
	})
	g.Rule(expr, []lr.Symbol{expr, pathStep}, actPathExtend)
	g.Rule(expr, []lr.Symbol{pathStep}, func(vals []lr.Value) (any, error) {
		return &ast.Path{
			Span:    spanOf(vals),
			Steps:   vals[0].Val.([]ast.Node),
			Partial: true,
		}, nil
	})
	g.Rule(expr, []lr.Symbol{dunderAnchor}, nil)
	g.Rule(expr, []lr.Symbol{constant}, nil)
	g.Rule(expr, []lr.Symbol{lr.T(PARAMETER)}, func(vals []lr.Value) (any, error) {
		return &ast.Parameter{Span: spanOf(vals), Name: tk(vals[0]).str()}, nil
	})
	g.Rule(expr, []lr.Symbol{set}, nil)
	g.Rule(expr, []lr.Symbol{lr.T(LPAREN), expr, lr.T(RPAREN)}, lr.Inline(1))
	g.RulePrec(expr,
		[]lr.Symbol{lr.T(LANG), fullTypeExpr, lr.T(RANG), expr}, cast,
		func(vals []lr.Value) (any, error) {
			return &ast.TypeCast{
				Span: spanOf(vals),
				Type: node(vals[1]),
				Expr: node(vals[3]),
			}, nil
		})
	g.Rule(expr, []lr.Symbol{kw("introspect"), typeExpr}, func(vals []lr.Value) (any, error) {
		return &ast.Introspect{Span: spanOf(vals), Type: node(vals[1])}, nil
	})

	ptr := func(dir ast.PtrDir, property bool) lr.Action {
		return func(vals []lr.Value) (any, error) {
			return []ast.Node{&ast.Ptr{
				Span:      spanOf(vals),
				Name:      vals[1].Val.(string),
				Direction: dir,
				Property:  property,
			}}, nil
		}
	}
	g.Rule(pathStep, []lr.Symbol{lr.T(DOT), pathStepName}, ptr(ast.Outbound, false))
	g.Rule(pathStep, []lr.Symbol{lr.T(DOTBW), pathStepName}, ptr(ast.Inbound, false))
	g.Rule(pathStep, []lr.Symbol{lr.T(AT), pathStepName}, ptr(ast.Outbound, true))
	g.Rule(pathStep, []lr.Symbol{lr.T(DOT), lr.T(ICONST)}, func(vals []lr.Value) (any, error) {
		return []ast.Node{&ast.Ptr{Span: spanOf(vals), Name: tk(vals[1]).Text()}}, nil
	})
	g.Rule(pathStep, []lr.Symbol{lr.T(DOT), lr.T(FCONST)}, actTupleIndexFloat)
	g.Rule(pathStep, []lr.Symbol{lr.T(DOT), funcApplication}, func(vals []lr.Value) (any, error) {
		return []ast.Node{node(vals[1])}, nil
	})

	g.Rule(pathStepName, []lr.Symbol{ptrIdentifier}, nil)
	g.Rule(pathStepName, []lr.Symbol{kw("__type__")}, func(vals []lr.Value) (any, error) {
		return "__type__", nil
	})

	for _, spelling := range []string{"__source__", "__subject__", "__type__"} {
		sp := spelling
		g.Rule(dunderAnchor, []lr.Symbol{kw(sp)}, func(vals []lr.Value) (any, error) {
			return &ast.Path{
				Span:  spanOf(vals),
				Steps: []ast.Node{&ast.ObjectRef{Span: spanOf(vals), Name: sp}},
			}, nil
		})
	}

	g.Rule(funcExpr, []lr.Symbol{funcApplication}, nil)
	g.Rule(funcApplication,
		[]lr.Symbol{nodeName, lr.T(LPAREN), optFuncArgList, lr.T(RPAREN)},
		actFuncCall)
	g.Rule(optFuncArgList, nil, func(vals []lr.Value) (any, error) {
		return []lr.Value(nil), nil
	})
	g.Rule(optFuncArgList, []lr.Symbol{funcArgList}, nil)
	g.Rule(optFuncArgList, []lr.Symbol{funcArgList, lr.T(COMMA)}, lr.Inline(0))

	g.Rule(funcArgSym, []lr.Symbol{expr}, func(vals []lr.Value) (any, error) {
		return funcArg{expr: node(vals[0])}, nil
	})
	g.Rule(funcArgSym, []lr.Symbol{funcArgName, lr.T(ASSIGN), expr}, actNamedArg)
	g.Rule(funcArgName, []lr.Symbol{anyIdentifier}, func(vals []lr.Value) (any, error) {
		return argName{name: vals[0].Val.(string)}, nil
	})
	g.Rule(funcArgName, []lr.Symbol{lr.T(PARAMETER)}, func(vals []lr.Value) (any, error) {
		return argName{name: tk(vals[0]).str(), isParam: true}, nil
	})

	g.Rule(nodeName, []lr.Symbol{baseName}, nil)
	g.Rule(baseName, []lr.Symbol{identifier}, func(vals []lr.Value) (any, error) {
		return &ast.ObjectRef{Span: spanOf(vals), Name: vals[0].Val.(string)}, nil
	})
	g.Rule(baseName, []lr.Symbol{qualifiedName}, nil)
	g.Rule(qualifiedName,
		[]lr.Symbol{identifier, lr.T(COLONCOLON), colonedIdents},
		actQualifiedName)

	g.Rule(identifier, []lr.Symbol{lr.T(IDENT)}, actIdent)
	g.Rule(identifier, []lr.Symbol{unreservedKeyword}, nil)
	g.Rule(ptrIdentifier, []lr.Symbol{identifier}, nil)
	g.Rule(ptrIdentifier, []lr.Symbol{partialReservedKeyword}, nil)
	g.Rule(anyIdentifier, []lr.Symbol{ptrIdentifier}, nil)
	g.Rule(anyIdentifier, []lr.Symbol{reservedKeyword}, nil)

	// one identity production per keyword spelling
	for _, spelling := range keywords.All() {
		sp := spelling
		lhs := unreservedKeyword
		switch keywords.Classify(sp) {
		case keywords.PartialReserved:
			lhs = partialReservedKeyword
		case keywords.Reserved:
			lhs = reservedKeyword
		}
		g.Rule(lhs, []lr.Symbol{kw(sp)}, func(vals []lr.Value) (any, error) {
			return sp, nil
		})
	}

	g.Rule(set, []lr.Symbol{lr.T(LBRACE), lr.T(RBRACE)}, func(vals []lr.Value) (any, error) {
		return &ast.Set{Span: spanOf(vals)}, nil
	})
	setAct := func(vals []lr.Value) (any, error) {
		return &ast.Set{Span: spanOf(vals), Elements: nodes(vals[1])}, nil
	}
	g.Rule(set, []lr.Symbol{lr.T(LBRACE), exprList, lr.T(RBRACE)}, setAct)
	g.Rule(set, []lr.Symbol{lr.T(LBRACE), exprList, lr.T(COMMA), lr.T(RBRACE)}, setAct)

	konst := func(make func(vals []lr.Value) ast.Node) lr.Action {
		return func(vals []lr.Value) (any, error) {
			return make(vals), nil
		}
	}
	g.Rule(constant, []lr.Symbol{lr.T(ICONST)}, konst(func(vals []lr.Value) ast.Node {
		return &ast.IntegerConstant{Span: spanOf(vals), Value: tk(vals[0]).Value().(int64)}
	}))
	g.Rule(constant, []lr.Symbol{lr.T(FCONST)}, konst(func(vals []lr.Value) ast.Node {
		t := tk(vals[0])
		return &ast.FloatConstant{Span: spanOf(vals), Value: t.Value().(float64), Text: t.Text()}
	}))
	g.Rule(constant, []lr.Symbol{lr.T(NICONST)}, konst(func(vals []lr.Value) ast.Node {
		return &ast.BigintConstant{Span: spanOf(vals), Value: tk(vals[0]).str()}
	}))
	g.Rule(constant, []lr.Symbol{lr.T(NFCONST)}, konst(func(vals []lr.Value) ast.Node {
		return &ast.DecimalConstant{Span: spanOf(vals), Value: tk(vals[0]).str()}
	}))
	g.Rule(constant, []lr.Symbol{lr.T(SCONST)}, konst(func(vals []lr.Value) ast.Node {
		return &ast.StringConstant{Span: spanOf(vals), Value: tk(vals[0]).str()}
	}))
	g.Rule(constant, []lr.Symbol{lr.T(BCONST)}, konst(func(vals []lr.Value) ast.Node {
		return &ast.BytesConstant{Span: spanOf(vals), Value: tk(vals[0]).Value().([]byte)}
	}))
	g.Rule(constant, []lr.Symbol{kw("true")}, konst(func(vals []lr.Value) ast.Node {
		return &ast.BooleanConstant{Span: spanOf(vals), Value: true}
	}))
	g.Rule(constant, []lr.Symbol{kw("false")}, konst(func(vals []lr.Value) ast.Node {
		return &ast.BooleanConstant{Span: spanOf(vals)}
	}))

	g.Rule(fullTypeExpr, []lr.Symbol{typeExpr}, nil)
	typeOp := func(op string) lr.Action {
		return func(vals []lr.Value) (any, error) {
			return &ast.TypeOp{
				Span:  spanOf(vals),
				Op:    op,
				Left:  node(vals[0]),
				Right: node(vals[2]),
			}, nil
		}
	}
	g.Rule(fullTypeExpr, []lr.Symbol{fullTypeExpr, lr.T(PIPE), fullTypeExpr}, typeOp("|"))
	g.Rule(fullTypeExpr, []lr.Symbol{fullTypeExpr, lr.T(AMPER), fullTypeExpr}, typeOp("&"))
	g.Rule(fullTypeExpr, []lr.Symbol{lr.T(LPAREN), fullTypeExpr, lr.T(RPAREN)}, lr.Inline(1))

	g.Rule(typeExpr, []lr.Symbol{typeName}, nil)
	// TYPEOF binds looser than path steps, so a trailing
	// path extends its operand rather than the whole form
	g.RulePrec(typeExpr, []lr.Symbol{kw("typeof"), expr}, typeofPrec,
		func(vals []lr.Value) (any, error) {
			return &ast.TypeOf{Span: spanOf(vals), Expr: node(vals[1])}, nil
		})

	g.Rule(typeName, []lr.Symbol{simpleTypeName}, nil)
	g.Rule(typeName,
		[]lr.Symbol{simpleTypeName, lr.T(LANG), subtypeList, lr.T(RANG)},
		actSubtypes)
	g.Rule(typeName,
		[]lr.Symbol{simpleTypeName, lr.T(LANG), lr.T(RANG)},
		func(vals []lr.Value) (any, error) {
			return nil, errAt(vals, "type parametrization requires at least one argument")
		})

	g.Rule(simpleTypeName, []lr.Symbol{nodeName}, func(vals []lr.Value) (any, error) {
		return &ast.TypeName{Span: spanOf(vals), Maintype: vals[0].Val.(*ast.ObjectRef)}, nil
	})
	for _, spelling := range []string{"anytype", "anytuple"} {
		sp := spelling
		g.Rule(simpleTypeName, []lr.Symbol{kw(sp)}, func(vals []lr.Value) (any, error) {
			return &ast.TypeName{
				Span:     spanOf(vals),
				Maintype: &ast.ObjectRef{Span: spanOf(vals), Name: sp},
			}, nil
		})
	}

	g.Rule(subtype, []lr.Symbol{fullTypeExpr}, nil)
	g.Rule(subtype, []lr.Symbol{identifier, lr.T(COLON), fullTypeExpr}, actLabeledSubtype)
	g.Rule(subtype, []lr.Symbol{lr.T(SCONST)}, konst(func(vals []lr.Value) ast.Node {
		return &ast.StringConstant{Span: spanOf(vals), Value: tk(vals[0]).str()}
	}))
	g.Rule(subtype, []lr.Symbol{lr.T(ICONST)}, konst(func(vals []lr.Value) ast.Node {
		return &ast.IntegerConstant{Span: spanOf(vals), Value: tk(vals[0]).Value().(int64)}
	}))
	g.Rule(subtype, []lr.Symbol{lr.T(FCONST)}, konst(func(vals []lr.Value) ast.Node {
		t := tk(vals[0])
		return &ast.FloatConstant{Span: spanOf(vals), Value: t.Value().(float64), Text: t.Text()}
	}))

	return &grammarSpec{
		g:          g,
		expr:       expr,
		identifier: identifier,
		simpleFor:  simpleFor,
	}
}
