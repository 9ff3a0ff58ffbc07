// Package output implements the append-only result table (spec §3, §4.8)
// and the writers that serialize it.
package output

import "github.com/snowfam/simulator/vote"

// Cell is the result-table encoding: None->0, Yes->1, No->2.
type Cell = vote.Cell

// Table is the append-only per-round record of every node's opinion.
// Internally it stores one slice per completed round (including round 0,
// the initial state); Rows transposes that into the N x (R+1) shape spec
// §6 describes as the external result shape.
type Table struct {
	size    int
	rounds  [][]Cell
}

// NewTable builds an empty table for a population of size nodes.
func NewTable(size int) *Table {
	return &Table{size: size}
}

// Append records one more round's snapshot. len(row) must equal the
// table's node count.
func (t *Table) Append(row []Cell) {
	if len(row) != t.size {
		panic("output: appended row length does not match table size")
	}
	cp := make([]Cell, len(row))
	copy(cp, row)
	t.rounds = append(t.rounds, cp)
}

// Rounds is the number of completed rounds (excluding round 0's initial
// state), equal to len(Columns())-1.
func (t *Table) Rounds() int { return len(t.rounds) - 1 }

// Round returns the recorded snapshot for round r, where r=0 is the
// initial state.
func (t *Table) Round(r int) []Cell { return t.rounds[r] }

// Columns returns every recorded round's snapshot, oldest (round 0) first.
func (t *Table) Columns() [][]Cell { return t.rounds }

// Rows transposes the table into one row per node, one column per round —
// the N x (R+1) shape spec §6 calls the result output.
func (t *Table) Rows() [][]Cell {
	rows := make([][]Cell, t.size)
	for n := range rows {
		rows[n] = make([]Cell, len(t.rounds))
		for r, col := range t.rounds {
			rows[n][r] = col[n]
		}
	}
	return rows
}

// Size is the node count (row count).
func (t *Table) Size() int { return t.size }
