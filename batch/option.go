package batch

import (
	"github.com/dreamerjackson/confextract/family"
	"github.com/dreamerjackson/confextract/record"
	"go.uber.org/zap"
)

type Option func(opts *options)

type options struct {
	WorkCount int
	Logger    *zap.Logger
	Registry  *family.Registry
	Assembler *record.Assembler
	NodeID    int64
}

var defaultOptions = options{
	WorkCount: 1,
	Logger:    zap.NewNop(),
	NodeID:    1,
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}

// WithWorkCount assembles up to n documents at once. Output order stays
// the input order.
func WithWorkCount(workCount int) Option {
	return func(opts *options) {
		opts.WorkCount = workCount
	}
}

// WithRegistry replaces family.Store as the source of declaration tables.
func WithRegistry(r *family.Registry) Option {
	return func(opts *options) {
		opts.Registry = r
	}
}

func WithAssembler(a *record.Assembler) Option {
	return func(opts *options) {
		opts.Assembler = a
	}
}

// WithNodeID sets the snowflake node of the run ids.
func WithNodeID(id int64) Option {
	return func(opts *options) {
		opts.NodeID = id
	}
}
