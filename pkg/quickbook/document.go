package quickbook

import (
	"path/filepath"

	"github.com/yaklabco/quickbook/pkg/files"
	"github.com/yaklabco/quickbook/pkg/ids"
)

// rootPath is the path of the document being compiled.
func (s *State) rootPath() string {
	if s.root == nil {
		return ""
	}
	return s.root.Path
}

// parseDocument parses the top level file.
func (s *State) parseDocument(f *files.File) string {
	s.root = f
	return s.parseFile(f, "", true)
}

// parseIncluded parses a file pulled in by [include] or [import].
// includeID, when set, replaces the id of the included document.
func (s *State) parseIncluded(f *files.File, includeID string) string {
	return s.parseFile(f, includeID, false)
}

// parseFile parses one quickbook file: its optional header, then its
// blocks. Files with a header are documents and are wrapped in their
// own element.
func (s *State) parseFile(f *files.File, includeID string, top bool) string {
	key := filepath.Clean(f.Path)
	s.includes = append(s.includes, key)
	defer func() { s.includes = s.includes[:len(s.includes)-1] }()

	s.file = f
	inherited := DefaultVersion
	if !top && s.since(106) {
		inherited = s.version
	}
	if top {
		s.sourceMode = "c++"
	}

	p := newParser(s, f, 0, len(f.Source), topLevel)
	info := p.scanDocInfo()
	p.applyVersion(&info, inherited)
	s.logger.Debug("parsing file", "path", f.Path, "version", FormatVersion(s.version), "doc", info.docType)

	docID, category := includeID, ids.CategoryExplicitSectionID
	switch {
	case docID != "":
	case info.id.Check():
		docID = info.id.String()
	case info.present && info.titleBegin < info.titleEnd:
		docID, category = ids.MakeID(f.Source[info.titleBegin:info.titleEnd]), ids.CategoryGeneratedDoc
	}
	token := s.ids.BeginFile(docID, category)
	level := s.ids.SectionLevel()
	minLevel := s.minSectionLevel
	s.minSectionLevel = level

	s.pushOutput()
	var header string
	if info.present {
		header = p.docHeader(&info, token, top)
	}
	p.pos = info.end
	p.blocks()
	p.closeSections(level, len(f.Source))
	block, phrase := s.popOutput()

	s.ids.EndFile()
	s.minSectionLevel = minLevel

	if !info.present {
		return block + phrase
	}
	return header + block + phrase + "</" + info.docType + ">\n"
}
