package sqldb

import (
	"go.uber.org/zap"
)

type options struct {
	logger  *zap.Logger
	driver  string
	sqlURL  string
	maxConn int
}

var defaultOptions = options{
	logger:  zap.NewNop(),
	driver:  DriverMySQL,
	maxConn: 2048,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithDriver selects the dialect: DriverMySQL or DriverSQLite.
func WithDriver(driver string) Option {
	return func(opts *options) {
		opts.driver = driver
	}
}

func WithConnURL(sqlURL string) Option {
	return func(opts *options) {
		opts.sqlURL = sqlURL
	}
}

func WithMaxConn(n int) Option {
	return func(opts *options) {
		opts.maxConn = n
	}
}
