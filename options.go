package xlsxstream

import (
	"github.com/go-playground/validator/v10"
)

// Options control reading and mapping.
type Options struct {
	// BatchSize is the number of rows per emitted batch. Required, >= 1.
	// The final batch of a file may be smaller.
	BatchSize int

	// GoValidator, when set, runs struct validation on every mapped record;
	// validation failures are appended to the row's warnings.
	GoValidator *validator.Validate

	// Internal type-erased batch handler for Stream / StreamFile.
	batchHandler func(batch any) error
}

// Option is the configuration option type for the reading and mapping APIs.
type Option func(*Options)

// BatchSize sets the number of rows per emitted batch.
func BatchSize(n int) Option {
	return func(o *Options) { o.BatchSize = n }
}

// UseValidator sets the go-playground/validator instance applied to every
// mapped record. Failures surface as warnings, never as errors.
func UseValidator(v *validator.Validate) Option {
	return func(o *Options) { o.GoValidator = v }
}

// OnBatch registers the per-batch handler for Stream / StreamFile. Returning
// an error from the handler stops iteration and propagates the error.
func OnBatch[T any](h func(batch []MappingResult[T]) error) Option {
	return func(o *Options) {
		if h == nil {
			return
		}
		o.batchHandler = func(batch any) error {
			b, _ := batch.([]MappingResult[T])
			return h(b)
		}
	}
}

func buildOptions(opts []Option) (*Options, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.BatchSize < 1 {
		return nil, ErrBatchSize
	}
	return &o, nil
}
