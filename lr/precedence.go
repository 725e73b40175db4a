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

package lr

// Assoc is the associativity of a precedence level.
type Assoc uint8

const (
	// Left resolves an equal-precedence shift/reduce
	// conflict in favor of the reduce.
	Left Assoc = iota
	// Right resolves it in favor of the shift.
	Right
	// NonAssoc makes the combination a syntax error.
	NonAssoc
)

// Prec is one named precedence level. Levels exist only
// to break shift/reduce ambiguities at table-build time;
// they are not part of any parse result.
type Prec struct {
	name  string
	level int
	assoc Assoc
}

// Precedence declares a new level that binds tighter
// than every level declared before it.
func (g *Grammar) Precedence(assoc Assoc, name string) *Prec {
	g.nlevels++
	return &Prec{name: name, level: g.nlevels, assoc: assoc}
}

// TokenPrec assigns a precedence level to a terminal.
func (g *Grammar) TokenPrec(kind int, p *Prec) {
	g.termPrec[kind] = p
}

// prodPrec returns the effective precedence of a
// production: its explicit tag if present, otherwise the
// precedence of the last terminal in its body.
func (g *Grammar) prodPrec(p *production) *Prec {
	if p.prec != nil {
		return p.prec
	}
	for i := len(p.rhs) - 1; i >= 0; i-- {
		if p.rhs[i].terminal() {
			return g.termPrec[int(p.rhs[i])]
		}
	}
	return nil
}
