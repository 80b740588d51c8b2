package quickbook

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/quickbook/pkg/files"
	"github.com/yaklabco/quickbook/pkg/langdetect"
	"github.com/yaklabco/quickbook/pkg/snippets"
	"github.com/yaklabco/quickbook/pkg/templates"
	"github.com/yaklabco/quickbook/pkg/value"
)

// includePath reads the path operand of [include], [import] and
// [xinclude]. It may be quoted.
func (p *parser) includePath(e *element) string {
	begin, end := e.bodyRange(p)
	text := p.src[begin:end]
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	return filepath.FromSlash(strings.TrimSpace(text))
}

// exists reports whether a path can be loaded, either from disk or from
// content registered with the loader.
func (s *State) exists(path string) bool {
	if s.loader.Cached(path) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// resolvePaths finds the files a path refers to: relative to the current
// file first, then along the include path. From 1.6 the path may be a
// glob, which can match any number of files.
func (p *parser) resolvePaths(path string, offset int) []string {
	if path == "" {
		p.s.errorAt(p.f, offset, "Missing file name")
		return nil
	}

	dirs := []string{filepath.Dir(p.f.Original().Path)}
	if !filepath.IsAbs(path) {
		dirs = append(dirs, p.s.opts.IncludePaths...)
	} else {
		dirs = []string{""}
	}

	if p.s.since(106) && strings.ContainsAny(path, "*?") {
		var found []string
		for _, dir := range dirs {
			matches, err := filepath.Glob(filepath.Join(dir, path))
			if err != nil {
				p.s.errorAt(p.f, offset, "Invalid glob pattern '%s'", path)
				return nil
			}
			for _, m := range matches {
				if !slices.Contains(found, m) {
					found = append(found, m)
					p.s.deps.Add(m, true)
				}
			}
		}
		slices.Sort(found)
		return found
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, path)
		if p.s.exists(candidate) {
			p.s.deps.Add(candidate, true)
			return []string{candidate}
		}
	}
	p.s.deps.Add(filepath.Join(dirs[0], path), false)
	p.s.errorAt(p.f, offset, "Unable to find file: %s", path)
	return nil
}

func (p *parser) load(path string, offset int) *files.File {
	f, err := p.s.loader.Load(p.s.ctx, path)
	if err != nil {
		p.s.errorAt(p.f, offset, "Unable to open file: %v", err)
		return nil
	}
	return f
}

// includeElement parses other quickbook files in place. Their macros and
// templates stay local to them.
func (p *parser) includeElement(e *element) {
	p.endParagraph()
	for _, path := range p.resolvePaths(p.includePath(e), e.open) {
		if slices.Contains(p.s.includes, filepath.Clean(path)) {
			p.s.errorAt(p.f, e.open, "Recursive include: %s", path)
			continue
		}
		f := p.load(path, e.open)
		if f == nil {
			continue
		}
		save := p.s.Save(SaveFile | SaveCallables)
		p.writeBlock(p.s.parseIncluded(f, e.id))
		save.Restore()
	}
}

// importElement makes the templates of another file available. Source
// files contribute their snippets; quickbook files their definitions.
func (p *parser) importElement(e *element) {
	p.endParagraph()
	for _, path := range p.resolvePaths(p.includePath(e), e.open) {
		f := p.load(path, e.open)
		if f == nil {
			continue
		}
		if !isQuickbook(path) {
			p.importSnippets(f)
			continue
		}
		if slices.Contains(p.s.includes, filepath.Clean(path)) {
			p.s.errorAt(p.f, e.open, "Recursive include: %s", path)
			continue
		}
		save := p.s.Save(SaveFile | SaveOutput)
		p.s.pushOutput()
		p.s.parseIncluded(f, "")
		save.Restore()
	}
}

// isQuickbook reports whether an imported file is markup rather than
// source code.
func isQuickbook(path string) bool {
	return !langdetect.IsCode(path) && strings.EqualFold(filepath.Ext(path), ".qbk")
}

func (p *parser) importSnippets(f *files.File) {
	mode := langdetect.ForPath(f.Path, []byte(f.Source))
	for _, snip := range snippets.Extract(f, mode) {
		snip.Body.Version = p.s.version
		sym := &templates.Symbol{
			Name:       snip.ID,
			Body:       value.Span(files.Span{File: snip.Body, Begin: 0, End: len(snip.Body.Source)}, tagTemplateBody),
			Kind:       templates.KindSnippet,
			SourceMode: snip.Mode,
		}
		if p.s.since(105) {
			sym.Lexical = p.s.templates.Top()
		}
		p.s.templates.Set(sym)
		p.s.logger.Debug("snippet imported", "id", snip.ID, "mode", snip.Mode, "path", f.Path)
	}
}

// xincludeElement emits an XInclude reference, relative to the xinclude
// base when one is configured.
func (p *parser) xincludeElement(e *element) {
	p.endParagraph()
	path := p.includePath(e)
	if path == "" {
		p.s.errorAt(p.f, e.open, "Missing file name")
		return
	}

	target := path
	if !filepath.IsAbs(path) {
		target = filepath.Join(filepath.Dir(p.f.Original().Path), path)
	}
	if base := p.s.opts.XIncludeBase; base != "" {
		if rel, err := filepath.Rel(base, target); err == nil {
			target = rel
		}
	} else if rel, err := filepath.Rel(filepath.Dir(p.s.rootPath()), target); err == nil {
		target = rel
	}

	p.writeBlock(`<xi:include href="` + encodeAttr(filepath.ToSlash(target)) + `" />` + "\n")
}
