package sqlstorage

import (
	"github.com/dreamerjackson/confextract/sqldb"
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	driver     string
	sqlURL     string
	BatchCount int // rows buffered before an insert
}

var defaultOptions = options{
	logger:     zap.NewNop(),
	driver:     sqldb.DriverMySQL,
	BatchCount: 100,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithDriver(driver string) Option {
	return func(opts *options) {
		opts.driver = driver
	}
}

func WithSQLURL(sqlURL string) Option {
	return func(opts *options) {
		opts.sqlURL = sqlURL
	}
}

func WithBatchCount(batchCount int) Option {
	return func(opts *options) {
		opts.BatchCount = batchCount
	}
}
