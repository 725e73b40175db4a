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

// Package parser turns Quel source text into the AST
// of package ast.
//
// The grammar is declared in ordinary Go (see
// newGrammar) and compiled once into a canonical LR(1)
// table that serves every parse. Two entry points exist:
// ParseBlock for a semicolon-separated statement block,
// and ParseFragment for a single expression statement.
package parser
