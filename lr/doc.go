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

// Package lr builds deterministic shift/reduce parsers
// from runtime grammar declarations.
//
// A Grammar accumulates nonterminals, productions with
// semantic actions, and named precedence levels, then
// compiles into an immutable Table through canonical
// LR(1) item-set construction. Shift/reduce conflicts
// are resolved by the precedence declarations; anything
// left unresolved fails compilation with a
// ConflictError rather than silently picking a
// resolution.
//
// One grammar may declare several entry modes, each
// selected by a marker terminal at the head of the token
// stream, so overlapping sub-grammars share one
// automaton. A compiled Table is never mutated and may
// drive any number of concurrent parses.
package lr
