// Copyright 2024 The Ontokit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package swrl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ontokit/ontokit/term"
)

// Row holds one value per column of its table, in column order.
type Row []term.Term

// Table is a binding table: named columns and rows of consistent
// assignments. Rows keep the order they were produced in. A table with no
// rows is a valid result.
type Table struct {
	cols []Variable
	idx  map[Variable]int
	rows []Row
}

// NewTable returns an empty table with the given columns. It panics if a
// column is repeated.
func NewTable(cols ...Variable) *Table {
	t := &Table{
		cols: append([]Variable(nil), cols...),
		idx:  make(map[Variable]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := t.idx[c]; dup {
			panic(fmt.Sprintf("swrl: repeated column %v", c))
		}
		t.idx[c] = i
	}
	return t
}

// UnitTable returns the join identity: no columns and a single empty row.
func UnitTable() *Table {
	t := NewTable()
	t.rows = []Row{{}}
	return t
}

// Columns returns the column names.
func (t *Table) Columns() []Variable {
	return append([]Variable(nil), t.cols...)
}

// Has reports whether v is a column of t.
func (t *Table) Has(v Variable) bool {
	_, ok := t.idx[v]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the rows. They must not be modified.
func (t *Table) Rows() []Row { return t.rows }

// Get returns the value of column v in r.
func (t *Table) Get(r Row, v Variable) (term.Term, bool) {
	i, ok := t.idx[v]
	if !ok {
		return nil, false
	}
	return r[i], true
}

// Append adds a row. It panics if the row does not have one value per
// column.
func (t *Table) Append(vals ...term.Term) {
	if len(vals) != len(t.cols) {
		panic(fmt.Sprintf("swrl: row of %d values for %d columns", len(vals), len(t.cols)))
	}
	t.rows = append(t.rows, Row(append([]term.Term(nil), vals...)))
}

// Join returns the natural join of t and o on their shared columns. The
// result has the columns of t followed by the columns of o that t lacks.
// Rows come out in left-major order: all matches of the first row of t,
// in the order of o, then those of the second row, and so on. When no
// column is shared the result is the cartesian product.
func (t *Table) Join(o *Table) *Table {
	var shared []Variable
	var extra []int
	for i, c := range o.cols {
		if t.Has(c) {
			shared = append(shared, c)
		} else {
			extra = append(extra, i)
		}
	}
	cols := append([]Variable(nil), t.cols...)
	for _, i := range extra {
		cols = append(cols, o.cols[i])
	}
	out := NewTable(cols...)
	if len(t.rows) == 0 || len(o.rows) == 0 {
		return out
	}
	combine := func(l, r Row) Row {
		row := make(Row, 0, len(cols))
		row = append(row, l...)
		for _, i := range extra {
			row = append(row, r[i])
		}
		return row
	}
	if len(shared) == 0 {
		out.rows = make([]Row, 0, len(t.rows)*len(o.rows))
		for _, l := range t.rows {
			for _, r := range o.rows {
				out.rows = append(out.rows, combine(l, r))
			}
		}
		return out
	}

	li := make([]int, len(shared))
	ri := make([]int, len(shared))
	for i, c := range shared {
		li[i], ri[i] = t.idx[c], o.idx[c]
	}
	key := func(r Row, pos []int) string {
		vals := make([]term.Term, len(pos))
		for i, p := range pos {
			vals[i] = r[p]
		}
		return term.KeyOf(vals...)
	}
	buckets := make(map[string][]int, len(o.rows))
	for i, r := range o.rows {
		k := key(r, ri)
		buckets[k] = append(buckets[k], i)
	}
	for _, l := range t.rows {
		for _, i := range buckets[key(l, li)] {
			out.rows = append(out.rows, combine(l, o.rows[i]))
		}
	}
	return out
}

// Filter returns a table with the same columns holding the rows for which
// keep returns true, in order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := &Table{cols: t.cols, idx: t.idx}
	for _, r := range t.rows {
		if keep(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// extend returns a table with column v added, valued by f. Rows for which
// f reports false are dropped.
func (t *Table) extend(v Variable, f func(Row) (term.Term, bool)) *Table {
	out := NewTable(append(t.Columns(), v)...)
	for _, r := range t.rows {
		val, ok := f(r)
		if !ok {
			continue
		}
		row := make(Row, 0, len(r)+1)
		row = append(row, r...)
		out.rows = append(out.rows, append(row, val))
	}
	return out
}

// Keys returns one key per row, sorted. Columns are taken in name order,
// so two tables hold the same set of assignments iff their keys are equal
// after duplicates are removed.
func (t *Table) Keys() []string {
	cols := t.Columns()
	sort.Slice(cols, func(i, j int) bool { return cols[i] < cols[j] })
	keys := make([]string, 0, len(t.rows))
	for _, r := range t.rows {
		var sb strings.Builder
		for _, c := range cols {
			sb.WriteString(string(c))
			sb.WriteByte('=')
			sb.WriteString(term.Key(r[t.idx[c]]))
			sb.WriteByte(';')
		}
		keys = append(keys, sb.String())
	}
	sort.Strings(keys)
	return keys
}

func (t *Table) String() string {
	var sb strings.Builder
	sb.WriteString(joinArgs(variablesAsArgs(t.cols)))
	fmt.Fprintf(&sb, " (%d rows)", len(t.rows))
	for _, r := range t.rows {
		sb.WriteString("\n")
		for i, v := range r {
			if i > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(v.String())
		}
	}
	return sb.String()
}

func variablesAsArgs(vs []Variable) []Argument {
	out := make([]Argument, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
