package quickbook

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/quickbook/pkg/deps"
	"github.com/yaklabco/quickbook/pkg/diag"
	"github.com/yaklabco/quickbook/pkg/files"
	"github.com/yaklabco/quickbook/pkg/ids"
	"github.com/yaklabco/quickbook/pkg/templates"
)

// MaxTemplateDepth bounds nested template expansion.
const MaxTemplateDepth = 100

// State is the mutable context of one compilation. Grammar productions
// and actions share it; nested parses save and restore parts of it.
type State struct {
	ctx    context.Context
	opts   *Options
	logger *log.Logger

	diags     *diag.Collector
	loader    *files.Loader
	ids       *ids.Manager
	deps      *deps.Tracker
	templates *templates.Stack
	macros    *macroScope

	root       *files.File
	file       *files.File
	version    int
	sourceMode string

	// idVersion drives id generation; compatibility-mode lowers it.
	idVersion int

	out    []*strings.Builder
	phrase []*strings.Builder

	templateDepth   int
	minSectionLevel int
	includes        []string
	fatal           bool
	fatalErr        error
}

func newState(ctx context.Context, opts *Options, loader *files.Loader, collector *diag.Collector) *State {
	s := &State{
		ctx:        ctx,
		opts:       opts,
		logger:     opts.logger(),
		diags:      collector,
		loader:     loader,
		ids:        ids.NewManager(),
		deps:       deps.NewTracker(),
		templates:  templates.NewStack(),
		macros:     newMacroScope(nil),
		version:    DefaultVersion,
		idVersion:  DefaultVersion,
		sourceMode: "c++",
	}
	s.pushOutput()
	return s
}

// out and phrase are stacks of buffers. The top of out receives block
// markup, the top of phrase collects inline markup of the current
// paragraph.

func (s *State) pushOutput() {
	s.out = append(s.out, &strings.Builder{})
	s.phrase = append(s.phrase, &strings.Builder{})
}

func (s *State) popOutput() (string, string) {
	n := len(s.out) - 1
	block, phrase := s.out[n].String(), s.phrase[n].String()
	s.out, s.phrase = s.out[:n], s.phrase[:n]
	return block, phrase
}

func (s *State) pushPhrase() {
	s.phrase = append(s.phrase, &strings.Builder{})
}

func (s *State) popPhrase() string {
	n := len(s.phrase) - 1
	text := s.phrase[n].String()
	s.phrase = s.phrase[:n]
	return text
}

func (s *State) outTop() *strings.Builder { return s.out[len(s.out)-1] }

func (s *State) phraseTop() *strings.Builder { return s.phrase[len(s.phrase)-1] }

// report records a diagnostic at offset of f.
func (s *State) report(f *files.File, offset int, severity diag.Severity, format string, args ...any) {
	d := diag.At(f, offset, severity, fmt.Sprintf(format, args...))
	s.diags.Report(d)
	s.logger.Debug("diagnostic", "severity", severity, "path", d.Path, "line", d.Line, "message", d.Message)
}

func (s *State) errorAt(f *files.File, offset int, format string, args ...any) {
	s.report(f, offset, diag.SeverityError, format, args...)
}

func (s *State) warningAt(f *files.File, offset int, format string, args ...any) {
	s.report(f, offset, diag.SeverityWarning, format, args...)
}

// fail reports a fatal error; every parse loop stops once it is set.
func (s *State) fail(cause error, f *files.File, offset int, format string, args ...any) {
	if s.fatal {
		return
	}
	s.errorAt(f, offset, format, args...)
	s.fatal = true
	s.fatalErr = cause
}

// SaveScope selects what a StateSave restores.
type SaveScope int

const (
	// SaveFile restores the current file, version and source mode.
	SaveFile SaveScope = 1 << iota

	// SaveMacros isolates macro definitions.
	SaveMacros

	// SaveTemplates isolates template definitions.
	SaveTemplates

	// SaveOutput discards any output buffers pushed after the save.
	SaveOutput

	// SaveCallables isolates both macros and templates.
	SaveCallables = SaveMacros | SaveTemplates

	// SaveAll restores everything.
	SaveAll = SaveFile | SaveCallables | SaveOutput
)

// StateSave captures part of a State so that a nested parse cannot leak
// changes into its caller.
type StateSave struct {
	s     *State
	scope SaveScope

	file       *files.File
	version    int
	sourceMode string
	idVersion  int
	macros     *macroScope
	templates  *templates.Scope
	outDepth   int
	phrDepth   int
	minSection int
}

// Save captures the parts of the state named by scope.
func (s *State) Save(scope SaveScope) *StateSave {
	ss := &StateSave{
		s:          s,
		scope:      scope,
		file:       s.file,
		version:    s.version,
		sourceMode: s.sourceMode,
		idVersion:  s.idVersion,
		macros:     s.macros,
		templates:  s.templates.Top(),
		outDepth:   len(s.out),
		phrDepth:   len(s.phrase),
		minSection: s.minSectionLevel,
	}
	if scope&SaveMacros != 0 {
		s.macros = newMacroScope(s.macros)
	}
	if scope&SaveTemplates != 0 {
		s.templates.Push(nil)
	}
	return ss
}

// Restore puts the saved parts back.
func (ss *StateSave) Restore() {
	s := ss.s
	if ss.scope&SaveFile != 0 {
		s.file = ss.file
		s.version = ss.version
		s.sourceMode = ss.sourceMode
		s.idVersion = ss.idVersion
		s.minSectionLevel = ss.minSection
	}
	if ss.scope&SaveMacros != 0 {
		s.macros = ss.macros
	}
	if ss.scope&SaveTemplates != 0 {
		s.templates.SetTop(ss.templates)
	}
	if ss.scope&SaveOutput != 0 {
		if len(s.out) > ss.outDepth {
			s.out = s.out[:ss.outDepth]
		}
		if len(s.phrase) > ss.phrDepth {
			s.phrase = s.phrase[:ss.phrDepth]
		}
	}
}
