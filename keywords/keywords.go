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

// Package keywords holds the keyword vocabulary of the
// query language and its three-way classification.
//
// Every keyword belongs to exactly one category:
//
//   - Reserved keywords are never usable as bare
//     identifiers.
//   - Partial-reserved keywords are usable as
//     identifiers in pointer and property name
//     position only.
//   - Unreserved keywords are usable as ordinary
//     identifiers everywhere.
//
// The tables are fixed at compile time.
package keywords

import "golang.org/x/exp/slices"

// Category is a keyword reservation category.
type Category uint8

const (
	// NotKeyword means the spelling is an ordinary identifier.
	NotKeyword Category = iota
	Unreserved
	PartialReserved
	Reserved
)

func (c Category) String() string {
	switch c {
	case Unreserved:
		return "unreserved"
	case PartialReserved:
		return "partial-reserved"
	case Reserved:
		return "reserved"
	default:
		return "not a keyword"
	}
}

var unreserved = []string{
	"abstract", "after", "alias", "all", "allow", "annotation",
	"applied", "as", "asc", "assignment", "before", "by",
	"cardinality", "cast", "config", "conflict", "constraint",
	"current", "database", "ddl", "deferrable", "deferred",
	"delegated", "desc", "emit", "explicit", "expression",
	"extension", "final", "first", "from", "function", "implicit",
	"index", "infix", "inheritable", "into", "isolation", "json",
	"last", "link", "migration", "multi", "named", "object", "of",
	"oids", "on", "only", "onto", "operator", "optionality",
	"overloaded", "owned", "package", "postfix", "prefix",
	"property", "proposed", "pseudo", "read", "reject", "rename",
	"repeatable", "required", "restrict", "role", "roles",
	"savepoint", "scalar", "schema", "sdl", "serializable",
	"session", "single", "source", "superuser", "system", "target",
	"ternary", "text", "then", "to", "transaction", "type",
	"unless", "using", "verbose", "version", "view", "write",
}

// partialReserved keywords are reserved for future use
// everywhere except pointer and property name position.
var partialReserved = []string{
	"analyze", "anyarray", "begin", "case", "check", "deallocate",
	"discard", "do", "end", "execute", "explain", "fetch", "get",
	"global", "grant", "import", "listen", "load", "lock", "match",
	"move", "notify", "over", "partition", "policy", "prepare",
	"raise", "refresh", "reindex", "revoke", "when", "window",
}

var reserved = []string{
	"__source__", "__std__", "__subject__", "__type__",
	"abort", "alter", "and", "anytuple", "anytype", "commit",
	"configure", "create", "declare", "delete", "describe",
	"detached", "distinct", "drop", "else", "empty", "exists",
	"extending", "false", "filter", "for", "group", "if", "ilike",
	"in", "insert", "introspect", "is", "like", "limit", "module",
	"not", "offset", "optional", "or", "order", "populate",
	"release", "reset", "rollback", "select", "set", "start",
	"true", "typeof", "union", "update", "variadic", "with",
}

var byName map[string]Category

// all is the full vocabulary in sorted order.
var all []string

func init() {
	byName = make(map[string]Category,
		len(unreserved)+len(partialReserved)+len(reserved))
	for _, kw := range unreserved {
		byName[kw] = Unreserved
	}
	for _, kw := range partialReserved {
		byName[kw] = PartialReserved
	}
	for _, kw := range reserved {
		byName[kw] = Reserved
	}
	if len(byName) != len(unreserved)+len(partialReserved)+len(reserved) {
		panic("keywords: category tables overlap")
	}
	all = make([]string, 0, len(byName))
	all = append(all, unreserved...)
	all = append(all, partialReserved...)
	all = append(all, reserved...)
	slices.Sort(all)
}

// Classify returns the category of a spelling,
// or NotKeyword if it is an ordinary identifier.
// Keywords are case-insensitive; the spelling must
// already be lower-cased.
func Classify(spelling string) Category {
	return byName[spelling]
}

// All returns the full keyword vocabulary in sorted
// order. The caller must not mutate the result.
func All() []string {
	return all
}

// Index returns the position of a spelling in All(),
// or -1 if it is not a keyword.
func Index(spelling string) int {
	i, ok := slices.BinarySearch(all, spelling)
	if !ok {
		return -1
	}
	return i
}
