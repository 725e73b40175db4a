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

// quel-parse parses query text from files (or stdin)
// and prints the regenerated source on success.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/quelang/quel/ast"
	"github.com/quelang/quel/parser"
)

var (
	dashe = flag.Bool("e", false, "parse a single expression instead of a statement block")
)

func parse(out *bufio.Writer, name string, src []byte) error {
	if *dashe {
		node, err := parser.ParseFragment(string(src))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintln(out, ast.ToString(node))
		return nil
	}
	b, err := parser.ParseBlock(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	for i := range b.Statements {
		fmt.Fprintf(out, "%s;\n", ast.ToString(b.Statements[i]))
	}
	return nil
}

func main() {
	flag.Parse()
	out := bufio.NewWriter(os.Stdout)
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		var src []byte
		var err error
		if arg == "-" {
			src, err = io.ReadAll(os.Stdin)
		} else {
			src, err = os.ReadFile(arg)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "can't read %q: %s\n", arg, err)
			os.Exit(1)
		}
		if err := parse(out, arg, src); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if err := out.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
