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

// Package ast implements the AST representation
// of query expressions.
//
// Each of the AST node types satisfies the Node
// interface. Nodes own their children outright;
// the tree contains no sharing and no cycles.
// Source spans are attached for diagnostics and
// never participate in Equals.
//
// ToString regenerates surface syntax from a node,
// and Walk allows a caller to examine the tree.
package ast
