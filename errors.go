package xlsxstream

import "errors"

// Structural errors abort the whole read and surface from the streaming
// interface. Coercion problems never appear here; they are collected as
// per-row warnings on MappingResult.
var (
	// ErrInvalidReference reports a cell reference with no column letters
	// (or letters outside A-Z).
	ErrInvalidReference = errors.New("xlsxstream: invalid cell reference")

	// ErrMissingSharedStrings reports a cell that points into the shared
	// string table of a document that does not carry one. It is raised
	// lazily, only when such a cell is actually read.
	ErrMissingSharedStrings = errors.New("xlsxstream: document has no shared string table")

	// ErrColumnOutOfRange reports a data cell whose column falls outside
	// the range declared by the header row.
	ErrColumnOutOfRange = errors.New("xlsxstream: cell column outside header range")

	// ErrBadDocument reports an unreadable or malformed document container.
	ErrBadDocument = errors.New("xlsxstream: unreadable document")

	// ErrBatchSize reports a non-positive batch size.
	ErrBatchSize = errors.New("xlsxstream: batch size must be >= 1")
)
