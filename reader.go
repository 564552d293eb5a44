package xlsxstream

import (
	"fmt"
)

// FieldMap is one data row keyed by column header. It carries an entry for
// every header, with nil marking columns the physical row had no cell for.
// A cell that is present but empty maps to a pointer to "".
type FieldMap map[string]*string

// Reader walks the first worksheet's rows in document order and emits them as
// batches of FieldMaps. The first row found becomes the header row. A Reader
// is forward-only and single-use; it must not be shared across goroutines.
type Reader struct {
	doc       *Document
	cur       *rowCursor
	headers   []string
	batchSize int
	batch     []FieldMap
	err       error
	done      bool
}

// NewReader opens a row reader over the document's first worksheet. The
// header row is consumed immediately so that Headers is available before the
// first batch is requested; a sheet with no rows yields empty headers and no
// batches.
func NewReader(doc *Document, opts ...Option) (*Reader, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	cur, err := doc.rows()
	if err != nil {
		return nil, err
	}
	r := &Reader{doc: doc, cur: cur, batchSize: o.BatchSize}
	if err := r.readHeader(); err != nil {
		cur.close()
		return nil, err
	}
	return r, nil
}

// readHeader consumes rows until the first row element and turns its cells,
// ordered by column index, into the header list.
func (r *Reader) readHeader() error {
	if !r.cur.next() {
		r.done = true
		return r.cur.err
	}
	row := r.cur.row
	maxIdx := -1
	byIdx := make(map[int]string, len(row.Cells))
	for i := range row.Cells {
		c := &row.Cells[i]
		idx, err := ColumnIndex(c.R)
		if err != nil {
			return err
		}
		val, err := r.doc.resolveCell(c)
		if err != nil {
			return err
		}
		byIdx[idx] = val
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	r.headers = make([]string, maxIdx+1)
	for idx, val := range byIdx {
		r.headers[idx] = val
	}
	return nil
}

// Headers returns the column headers discovered from the first row, in
// column order. The slice is shared; callers must not modify it.
func (r *Reader) Headers() []string {
	return r.headers
}

// Next advances to the next batch of rows. It returns false when the source
// is exhausted or a structural error occurred; check Err afterwards.
func (r *Reader) Next() bool {
	if r.done || r.err != nil {
		return false
	}
	batch := make([]FieldMap, 0, r.batchSize)
	for len(batch) < r.batchSize {
		if !r.cur.next() {
			r.err = r.cur.err
			r.done = true
			break
		}
		fm, err := r.fieldMap(r.cur.row)
		if err != nil {
			r.err = err
			r.done = true
			r.cur.close()
			break
		}
		batch = append(batch, fm)
	}
	if r.err != nil || len(batch) == 0 {
		r.batch = nil
		return false
	}
	r.batch = batch
	return true
}

// Batch returns the batch produced by the last successful Next.
func (r *Reader) Batch() []FieldMap {
	return r.batch
}

// Err returns the structural error that terminated iteration, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying worksheet stream. It is safe to call at any
// point, including after abandoning iteration early.
func (r *Reader) Close() error {
	r.done = true
	r.cur.close()
	return nil
}

// fieldMap builds the FieldMap for one raw row: every header gets an entry,
// nil where the row carries no cell for it.
func (r *Reader) fieldMap(row rawRow) (FieldMap, error) {
	fm := make(FieldMap, len(r.headers))
	for _, h := range r.headers {
		fm[h] = nil
	}
	for i := range row.Cells {
		c := &row.Cells[i]
		idx, err := ColumnIndex(c.R)
		if err != nil {
			return nil, err
		}
		if idx >= len(r.headers) {
			return nil, fmt.Errorf("%w: cell %s in row %d (have %d headers)",
				ErrColumnOutOfRange, c.R, row.Num, len(r.headers))
		}
		val, err := r.doc.resolveCell(c)
		if err != nil {
			return nil, err
		}
		fm[r.headers[idx]] = &val
	}
	return fm, nil
}
