package quickbook

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/quickbook/pkg/diag"
)

// Options configures a compilation.
type Options struct {
	// IncludePaths are searched after the including file's directory.
	IncludePaths []string

	// Defines are "name=value" or "name" macro definitions applied
	// before the document is parsed. Values are quickbook markup.
	Defines []string

	// SelfLinkedHeaders wraps heading titles in a link to themselves.
	SelfLinkedHeaders bool

	// PrettyPrint reformats the generated markup.
	PrettyPrint bool
	Indent      int
	LineWidth   int

	// ImageLocation is where image files are looked up for dependency
	// tracking. Defaults to the document directory.
	ImageLocation string

	// XIncludeBase is the directory xinclude paths are made relative to.
	XIncludeBase string

	// Sink receives diagnostics as they are produced. May be nil.
	Sink diag.Sink

	// Logger receives debug output. Defaults to log.Default().
	Logger *log.Logger

	// Now supplies the time for __DATE__ and __TIME__.
	Now func() time.Time
}

// DefaultOptions returns the settings used when no flags are given.
func DefaultOptions() Options {
	return Options{
		SelfLinkedHeaders: true,
		PrettyPrint:       true,
		Indent:            2,
		LineWidth:         80,
	}
}

func (o *Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

func (o *Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
