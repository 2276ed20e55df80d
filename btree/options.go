package btree

import "github.com/datatrails/go-datatrails-common/logger"

// Options configures Create and Open.
type Options struct {
	cacheSize int
	log       logger.Logger
}

type Option func(*Options)

// WithCacheSize sets how many nodes are kept in memory between operations.
// 0, the default, disables the cache and writes every mutation through.
func WithCacheSize(n int) Option {
	return func(o *Options) {
		o.cacheSize = n
	}
}

func WithLogger(log logger.Logger) Option {
	return func(o *Options) {
		o.log = log
	}
}
