package medrec

import (
	"github.com/spf13/afero"
)

const (
	maxNameSize   = 49 // bytes
	maxGenderSize = 9  // bytes
	maxTextSize   = 99 // bytes, medical history, diagnosis and prescription
)

type options struct {
	// The maximum number of bytes for a field. Defaults follow the legacy
	// fixed size buffers, 0 disables the check.
	limits Limits

	// The file system Save and Load access. The default file system is
	// implemented by os package.
	fs FileSystem

	logger Logger
}

func defaultOptions() *options {
	return &options{
		limits: DefaultLimits(),
		fs:     afero.NewOsFs(),
		logger: &stdLogger{},
	}
}

type Option interface {
	apply(*options)
}

type funcOption struct {
	fn func(*options)
}

func (funcOpt funcOption) apply(o *options) {
	funcOpt.fn(o)
}

func newFuncOption(fn func(*options)) *funcOption {
	return &funcOption{
		fn: fn,
	}
}

// WithMaxNameBytes set the maximum number of bytes for a patient name.
func WithMaxNameBytes(n int) Option {
	return newFuncOption(func(o *options) {
		o.limits.Name = n
	})
}

// WithMaxGenderBytes set the maximum number of bytes for the gender field.
func WithMaxGenderBytes(n int) Option {
	return newFuncOption(func(o *options) {
		o.limits.Gender = n
	})
}

// WithMaxTextBytes set the maximum number of bytes for medical history,
// diagnosis and prescription.
func WithMaxTextBytes(n int) Option {
	return newFuncOption(func(o *options) {
		o.limits.Text = n
	})
}

// WithLimits replaces all field limits at once.
func WithLimits(limits Limits) Option {
	return newFuncOption(func(o *options) {
		o.limits = limits
	})
}

// WithFileSystem set the file system to access.
func WithFileSystem(fs FileSystem) Option {
	return newFuncOption(func(o *options) {
		o.fs = fs
	})
}

// WithLogger set the logger, nil silences the registry.
func WithLogger(logger Logger) Option {
	return newFuncOption(func(o *options) {
		if logger == nil {
			logger = NopLogger()
		}
		o.logger = logger
	})
}
