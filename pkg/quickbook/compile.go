package quickbook

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/quickbook/pkg/deps"
	"github.com/yaklabco/quickbook/pkg/diag"
	"github.com/yaklabco/quickbook/pkg/files"
	"github.com/yaklabco/quickbook/pkg/post"
)

// Sentinel errors for conditions that stop a compilation.
var (
	// ErrGrammar is returned when the input cannot be parsed at all.
	ErrGrammar = errors.New("syntax error")

	// ErrInfiniteLoop is returned when templates nest too deeply.
	ErrInfiniteLoop = errors.New("infinite loop detected")
)

// Result is the outcome of a compilation.
type Result struct {
	// Output is the generated Boostbook.
	Output string

	Errors      int
	Warnings    int
	Diagnostics []diag.Diagnostic

	// Deps records every file the document referred to.
	Deps *deps.Tracker

	// Fatal is set when parsing stopped early.
	Fatal bool
}

// Compile reads the document at path and translates it.
func Compile(ctx context.Context, path string, opts Options) (*Result, error) {
	loader := files.NewLoader(opts.logger())
	f, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return compile(ctx, loader, f, opts)
}

// CompileString translates source as if it had been read from path.
func CompileString(ctx context.Context, path, source string, opts Options) (*Result, error) {
	loader := files.NewLoader(opts.logger())
	return compile(ctx, loader, loader.LoadString(path, source), opts)
}

// CompileWith translates the document at path using a caller supplied
// loader, so that other files can be registered in memory first.
func CompileWith(ctx context.Context, loader *files.Loader, path string, opts Options) (*Result, error) {
	f, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return compile(ctx, loader, f, opts)
}

func compile(ctx context.Context, loader *files.Loader, f *files.File, opts Options) (*Result, error) {
	collector := diag.NewCollector(opts.Sink)
	s := newState(ctx, &opts, loader, collector)
	s.deps.Add(f.Path, true)

	s.predefine(f)
	output := s.parseDocument(f)
	output = s.ids.Replace(output)
	s.logger.Debug("ids generated", "count", len(s.ids.Placeholders()))

	if opts.PrettyPrint && !s.fatal {
		formatted, err := post.Format(output, post.Options{Indent: opts.Indent, LineWidth: opts.LineWidth})
		if err != nil {
			collector.Report(diag.Diagnostic{
				Severity: diag.SeverityError,
				Path:     f.Path,
				Message:  fmt.Sprintf("Error in post-processing: %v", err),
			})
		} else {
			output = formatted
		}
	}

	result := &Result{
		Output:      output,
		Errors:      collector.ErrorCount(),
		Warnings:    collector.WarningCount(),
		Diagnostics: collector.Diagnostics(),
		Deps:        s.deps,
		Fatal:       s.fatal,
	}
	if s.fatal {
		return result, fmt.Errorf("%s: %w", f.Path, s.fatalErr)
	}
	return result, nil
}

// predefine installs the built in macros and the -D definitions.
func (s *State) predefine(f *files.File) {
	now := s.opts.now()
	s.macros.define("__DATE__", now.Format("2006-Jan-02"))
	s.macros.define("__TIME__", now.Format("03:04:05 PM"))
	s.macros.define("__FILENAME__", encodeText(f.Path))

	for _, def := range s.opts.Defines {
		name, expansion, _ := strings.Cut(def, "=")
		name = strings.TrimSpace(name)
		if !validMacroName(name) {
			s.errorAt(nil, 0, "Invalid macro definition: %s", def)
			continue
		}
		src := files.New("command line", expansion, LatestVersion)
		save := s.Save(SaveFile)
		s.file, s.version = src, LatestVersion
		p := newParser(s, src, 0, len(src.Source), phraseOnly)
		s.macros.define(name, p.phraseRange(src, 0, len(src.Source), phraseOnly))
		save.Restore()
	}
}
