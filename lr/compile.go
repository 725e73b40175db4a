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

import (
	"encoding/binary"
	"fmt"

	"github.com/dchest/siphash"
	"golang.org/x/exp/slices"
)

// item is one LR(1) item: a production, a dot position
// inside its body, and a lookahead terminal.
type item struct {
	prod int32
	dot  int32
	la   int32
}

func itemLess(a, b item) int {
	if a.prod != b.prod {
		return int(a.prod - b.prod)
	}
	if a.dot != b.dot {
		return int(a.dot - b.dot)
	}
	return int(a.la - b.la)
}

// row is the compiled automaton row for one state.
type row struct {
	shift  map[int]int // terminal kind -> next state
	reduce map[int]int // terminal kind -> production
	gotos  map[int]int // nonterminal index -> next state
}

// Table is a compiled, immutable shift/reduce automaton.
// A single Table may drive any number of concurrent
// parses; nothing in it is mutated after Compile.
type Table struct {
	g      *Grammar
	rows   []row
	accept Symbol // lhs of the augmented entry productions
}

// firstSets computes FIRST and nullability for every
// nonterminal.
type firstSets struct {
	first    []map[int32]struct{}
	nullable []bool
}

func (g *Grammar) firstSets() *firstSets {
	fs := &firstSets{
		first:    make([]map[int32]struct{}, len(g.ntNames)),
		nullable: make([]bool, len(g.ntNames)),
	}
	for i := range fs.first {
		fs.first[i] = make(map[int32]struct{})
	}
	for changed := true; changed; {
		changed = false
		for _, p := range g.prods {
			idx := p.lhs.ntIndex()
			null := true
			for _, s := range p.rhs {
				if s.terminal() {
					if _, ok := fs.first[idx][int32(s)]; !ok {
						fs.first[idx][int32(s)] = struct{}{}
						changed = true
					}
					null = false
					break
				}
				si := s.ntIndex()
				for t := range fs.first[si] {
					if _, ok := fs.first[idx][t]; !ok {
						fs.first[idx][t] = struct{}{}
						changed = true
					}
				}
				if !fs.nullable[si] {
					null = false
					break
				}
			}
			if null && !fs.nullable[idx] {
				fs.nullable[idx] = true
				changed = true
			}
		}
	}
	return fs
}

// firstSeq collects FIRST(syms la): the terminals that
// can begin the sequence syms followed by lookahead la.
func (fs *firstSets) firstSeq(syms []Symbol, la int32, dst map[int32]struct{}) {
	for _, s := range syms {
		if s.terminal() {
			dst[int32(s)] = struct{}{}
			return
		}
		si := s.ntIndex()
		for t := range fs.first[si] {
			dst[t] = struct{}{}
		}
		if !fs.nullable[si] {
			return
		}
	}
	dst[la] = struct{}{}
}

// closure expands a kernel item set with all implied
// nonkernel items.
func (g *Grammar) closure(fs *firstSets, kernel []item) map[item]struct{} {
	set := make(map[item]struct{}, 4*len(kernel))
	work := make([]item, 0, len(kernel))
	for _, it := range kernel {
		set[it] = struct{}{}
		work = append(work, it)
	}
	las := make(map[int32]struct{})
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		p := g.prods[it.prod]
		if int(it.dot) >= len(p.rhs) {
			continue
		}
		next := p.rhs[it.dot]
		if next.terminal() {
			continue
		}
		for k := range las {
			delete(las, k)
		}
		fs.firstSeq(p.rhs[it.dot+1:], it.la, las)
		for _, pi := range g.byLHS[next.ntIndex()] {
			for la := range las {
				ni := item{prod: int32(pi), dot: 0, la: la}
				if _, ok := set[ni]; !ok {
					set[ni] = struct{}{}
					work = append(work, ni)
				}
			}
		}
	}
	return set
}

// state fingerprinting: kernels are deduplicated through
// a 64-bit siphash of their canonical encoding, with an
// exact comparison on bucket collisions.
const (
	fpk0 = 0x7175656c2d6c7231 // "quel-lr1"
	fpk1 = 0x6772616d6d617221
)

func fingerprint(kernel []item) uint64 {
	buf := make([]byte, 0, 12*len(kernel))
	var tmp [12]byte
	for _, it := range kernel {
		binary.LittleEndian.PutUint32(tmp[0:], uint32(it.prod))
		binary.LittleEndian.PutUint32(tmp[4:], uint32(it.dot))
		binary.LittleEndian.PutUint32(tmp[8:], uint32(it.la))
		buf = append(buf, tmp[:]...)
	}
	return siphash.Hash(fpk0, fpk1, buf)
}

// Compile builds the canonical LR(1) automaton for the
// grammar, resolving shift/reduce conflicts through the
// declared precedence levels. It fails with a
// *ConflictError if any conflict is unresolvable; such a
// failure indicates a defect in the grammar itself and
// is only ever seen at build time.
func (g *Grammar) Compile() (*Table, error) {
	if len(g.starts) == 0 {
		return nil, fmt.Errorf("lr: no start production declared")
	}
	accept := g.NonTerm("$accept")
	for _, s := range g.starts {
		g.Rule(accept, []Symbol{T(s.marker), s.root}, Inline(1))
	}
	fs := g.firstSets()

	var (
		kernels [][]item
		buckets = make(map[uint64][]int)
		edges   []map[Symbol]int
	)
	intern := func(kernel []item) int {
		slices.SortFunc(kernel, itemLess)
		fp := fingerprint(kernel)
		for _, si := range buckets[fp] {
			if slices.Equal(kernels[si], kernel) {
				return si
			}
		}
		si := len(kernels)
		kernels = append(kernels, kernel)
		buckets[fp] = append(buckets[fp], si)
		edges = append(edges, nil)
		return si
	}

	var initial []item
	for _, pi := range g.byLHS[accept.ntIndex()] {
		initial = append(initial, item{prod: int32(pi), dot: 0, la: int32(g.eof)})
	}
	intern(initial)

	type pending struct {
		state int
		prod  int
		la    int32
	}
	var reduces []pending
	for si := 0; si < len(kernels); si++ {
		set := g.closure(fs, kernels[si])
		moved := make(map[Symbol][]item)
		for it := range set {
			p := g.prods[it.prod]
			if int(it.dot) == len(p.rhs) {
				reduces = append(reduces, pending{state: si, prod: int(it.prod), la: it.la})
				continue
			}
			next := p.rhs[it.dot]
			moved[next] = append(moved[next], item{prod: it.prod, dot: it.dot + 1, la: it.la})
		}
		edges[si] = make(map[Symbol]int, len(moved))
		for sym, kernel := range moved {
			edges[si][sym] = intern(kernel)
		}
	}

	t := &Table{g: g, rows: make([]row, len(kernels)), accept: accept}
	for si := range t.rows {
		r := row{
			shift:  make(map[int]int),
			reduce: make(map[int]int),
			gotos:  make(map[int]int),
		}
		for sym, to := range edges[si] {
			if sym.terminal() {
				r.shift[int(sym)] = to
			} else {
				r.gotos[sym.ntIndex()] = to
			}
		}
		t.rows[si] = r
	}
	for _, rd := range reduces {
		if err := t.addReduce(rd.state, rd.prod, int(rd.la)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// addReduce records a reduction of prod on lookahead la,
// resolving any collision with an existing action.
func (t *Table) addReduce(state, prod, la int) error {
	r := &t.rows[state]
	p := t.g.prods[prod]
	if prev, ok := r.reduce[la]; ok {
		if prev == prod {
			return nil
		}
		return &ConflictError{
			Token:  t.g.termName(la),
			Reduce: t.g.describe(t.g.prods[prev]),
			With:   t.g.describe(p),
		}
	}
	if _, ok := r.shift[la]; ok {
		pp := t.g.prodPrec(p)
		tp := t.g.termPrec[la]
		if pp == nil || tp == nil {
			return &ConflictError{
				Token:  t.g.termName(la),
				Reduce: t.g.describe(p),
			}
		}
		switch {
		case pp.level > tp.level:
			delete(r.shift, la)
			r.reduce[la] = prod
		case pp.level < tp.level:
			// keep the shift
		default:
			switch tp.assoc {
			case Left:
				delete(r.shift, la)
				r.reduce[la] = prod
			case Right:
				// keep the shift
			case NonAssoc:
				delete(r.shift, la)
			}
		}
		return nil
	}
	r.reduce[la] = prod
	return nil
}
