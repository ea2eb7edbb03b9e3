package dataset

import (
	"fmt"
	"log/slog"

	"github.com/henjo/libpsf/compress"
	"github.com/henjo/libpsf/internal/logger"
	"github.com/henjo/libpsf/internal/options"
)

// Config holds the settings of a Dataset.
type Config struct {
	logger              *logger.Logger
	mmap                bool
	decompress          bool
	maxDecompressedSize int64
	invertStruct        bool
	strictRecords       bool
}

// Option configures a Dataset.
type Option = options.Option[*Config]

func defaultConfig() *Config {
	return &Config{
		logger:              logger.Noop(),
		mmap:                true,
		decompress:          true,
		maxDecompressedSize: compress.DefaultMaxSize,
		strictRecords:       true,
	}
}

// WithLogger sets the logger. Open and close are logged at debug level,
// failures at error level. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		c.logger = logger.Wrap(l)
	})
}

// WithMmap selects between mapping the file (the default) and reading it
// into memory.
func WithMmap(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.mmap = enabled
	})
}

// WithDecompression enables transparent opening of zstd, S2, LZ4 and gzip
// archives of PSF files. It is on by default.
func WithDecompression(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.decompress = enabled
	})
}

// WithMaxDecompressedSize bounds the size of a decompressed image.
func WithMaxDecompressedSize(n int64) Option {
	return options.New(func(c *Config) error {
		if n <= 0 {
			return fmt.Errorf("invalid max decompressed size: %d", n)
		}
		c.maxDecompressedSize = n

		return nil
	})
}

// WithInvertStruct makes Signal return struct-typed swept signals as
// columns, one vector per field, instead of a vector of structs.
func WithInvertStruct(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.invertStruct = enabled
	})
}

// WithStrictRecords verifies the parameter id and trace headers of every
// simple sweep record. It is on by default.
func WithStrictRecords(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.strictRecords = enabled
	})
}
