package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Writer serializes a completed Table. Concrete writers are the core's
// only collaborator for getting a run's results onto disk (spec §1's
// "explicitly out of scope" boundary).
type Writer interface {
	WriteTable(w io.Writer, t *Table) error
}

// CSVWriter writes the table's wide N x (R+1) shape as CSV, one row per
// node, columns labeled round_0..round_R.
type CSVWriter struct{}

func (CSVWriter) WriteTable(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(t.Columns()))
	for i := range header {
		header[i] = fmt.Sprintf("round_%d", i)
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	for _, row := range t.Rows() {
		rec := make([]string, len(row))
		for i, c := range row {
			rec[i] = fmt.Sprintf("%d", c)
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv writer")
}

// JSONWriter writes the table as JSON. In wide mode (the default, and the
// contractual shape per spec §6) it writes one array per node. Long mode
// is an additive convenience supplementing the original tool's per-node
// tidy record shape (spec §4.8); it is off unless Long is set.
type JSONWriter struct {
	Long bool
}

type wideDocument struct {
	Rows [][]Cell `json:"rows"`
}

// LongRecord mirrors the id/round/vote core of the original implementation's
// OutData shape: one record per (node, round) pair. The original also
// carries a node-type tag and a per-backend state blob; this table has no
// role information attached to it (that lives in the node package), so
// those two fields are omitted here.
type LongRecord struct {
	ID    int  `json:"id"`
	Round int  `json:"round"`
	Vote  Cell `json:"vote"`
}

func (w JSONWriter) WriteTable(out io.Writer, t *Table) error {
	enc := json.NewEncoder(out)
	if w.Long {
		records := make([]LongRecord, 0, t.Size()*len(t.Columns()))
		for id, row := range t.Rows() {
			for round, cell := range row {
				records = append(records, LongRecord{ID: id, Round: round, Vote: cell})
			}
		}
		return errors.Wrap(enc.Encode(records), "encode long-mode json")
	}

	return errors.Wrap(enc.Encode(wideDocument{Rows: t.Rows()}), "encode wide-mode json")
}
