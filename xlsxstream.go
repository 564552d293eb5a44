package xlsxstream

import (
	"fmt"
	"io"
)

/*
Package xlsxstream

High-level features:

  - Stream worksheet rows out of an xlsx document with bounded memory:
    only the current row and the current batch are ever held.
  - Rows are emitted as FieldMaps (header -> value, nil for absent cells),
    grouped into fixed-size batches; the first row is the header row.
  - Map rows to Go structs by case-insensitive header/field-name match,
    with an optional `excel:"Name"` tag override:
      - string, int*, uint*, float*, bool, time.Time (with `fmt` layout
        and serial-date support), uuid.UUID, pointers to the above, and
        comma-separated lists of the above
  - Coercion failures never abort the read: each row's MappingResult
    carries the partially defaulted record plus per-field warnings.
  - Optional struct validation via go-playground/validator; failures are
    reported as warnings too.
  - Columns with no matching field are quarantined verbatim in Leftover.

For full control:
  - Open/OpenFile + NewReader + BuildMapper, and drive the batches yourself.
For simplicity:
  - Stream/StreamFile with OnBatch(...), or Read/ReadFile to collect all.
*/

// streamDocument drives reader and mapper over an opened document, handing
// each mapped batch to the configured handler.
func streamDocument[T any](doc *Document, opts []Option) error {
	o, err := buildOptions(opts)
	if err != nil {
		return err
	}
	if o.batchHandler == nil {
		return fmt.Errorf("xlsxstream: OnBatch(...) is required for Stream/StreamFile")
	}

	r, err := NewReader(doc, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	mapper, err := BuildMapper[T](r.Headers(), opts...)
	if err != nil {
		return err
	}

	for r.Next() {
		rows := r.Batch()
		results := make([]MappingResult[T], len(rows))
		for i, fm := range rows {
			results[i] = mapper.Map(fm)
		}
		if err := o.batchHandler(results); err != nil {
			return err
		}
	}
	return r.Err()
}

// StreamFile streams an xlsx file from a path, calling the handler supplied
// via OnBatch(...) once per batch of mapped rows.
func StreamFile[T any](path string, opts ...Option) error {
	doc, err := OpenFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = doc.Close() }()
	return streamDocument[T](doc, opts)
}

// Stream streams an xlsx document from a seekable byte source, calling the
// handler supplied via OnBatch(...) once per batch of mapped rows.
func Stream[T any](r io.ReaderAt, size int64, opts ...Option) error {
	doc, err := Open(r, size)
	if err != nil {
		return err
	}
	defer func() { _ = doc.Close() }()
	return streamDocument[T](doc, opts)
}

// collect gathers every mapped row of a document into one slice.
func collect[T any](doc *Document, opts []Option) ([]MappingResult[T], error) {
	var all []MappingResult[T]
	opts = append(opts, OnBatch(func(batch []MappingResult[T]) error {
		all = append(all, batch...)
		return nil
	}))
	if err := streamDocument[T](doc, opts); err != nil {
		return nil, err
	}
	return all, nil
}

// ReadFile reads an xlsx file from a path and returns every mapped row.
// Prefer StreamFile for large files.
func ReadFile[T any](path string, opts ...Option) ([]MappingResult[T], error) {
	doc, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = doc.Close() }()
	return collect[T](doc, opts)
}

// Read reads an xlsx document from a seekable byte source and returns every
// mapped row. Prefer Stream for large documents.
func Read[T any](r io.ReaderAt, size int64, opts ...Option) ([]MappingResult[T], error) {
	doc, err := Open(r, size)
	if err != nil {
		return nil, err
	}
	defer func() { _ = doc.Close() }()
	return collect[T](doc, opts)
}
