package quickbook

import (
	"strings"

	"github.com/yaklabco/quickbook/pkg/ids"
	"github.com/yaklabco/quickbook/pkg/value"
)

var docTypes = map[string]bool{ //nolint:gochecknoglobals
	"library": true, "article": true, "book": true, "chapter": true, "part": true,
	"appendix": true, "preface": true, "qandadiv": true, "qandaset": true,
	"reference": true, "set": true,
}

type docAttribute struct {
	tag        value.Tag
	repeatable bool
}

var docAttributes = map[string]docAttribute{ //nolint:gochecknoglobals
	"quickbook":          {tag: tagDocQuickbook},
	"compatibility-mode": {tag: tagDocCompatibility},
	"id":                 {tag: tagDocID},
	"dirname":            {tag: tagDocDirname},
	"last-revision":      {tag: tagDocLastRevision},
	"version":            {tag: tagDocVersion},
	"lang":               {tag: tagDocLang},
	"source-mode":        {tag: tagDocSourceMode},
	"authors":            {tag: tagDocAuthors, repeatable: true},
	"copyright":          {tag: tagDocCopyright, repeatable: true},
	"license":            {tag: tagDocLicense},
	"purpose":            {tag: tagDocPurpose},
	"category":           {tag: tagDocCategory, repeatable: true},
	"biblioid":           {tag: tagDocBiblioID, repeatable: true},
}

// docInfo is the header of a document: [book Title [attr value]...].
type docInfo struct {
	present    bool
	docType    string
	titleBegin int
	titleEnd   int
	end        int

	quickbook     value.Value
	compatibility value.Value
	id            value.Value
	dirname       value.Value
	lastRevision  value.Value
	version       value.Value
	lang          value.Value
	sourceMode    value.Value
	authors       []value.Value
	copyrights    []value.Value
	license       value.Value
	purpose       value.Value
	categories    []value.Value
	biblioIDs     []value.Value
}

// scanDocInfo reads the document header if the file starts with one.
// Blank lines and comments may precede it.
func (p *parser) scanDocInfo() docInfo {
	pos := p.skipSpace(p.pos, p.end)
	for strings.HasPrefix(p.src[pos:p.end], "[/") {
		closing := p.matchBracket(pos)
		if closing < 0 {
			break
		}
		pos = p.skipSpace(closing+1, p.end)
	}
	if pos >= p.end || p.src[pos] != '[' {
		return docInfo{end: p.pos}
	}
	closing := p.matchBracket(pos)
	name, nameEnd := p.elementName(pos + 1)
	if closing < 0 || !docTypes[name] || nameEnd >= closing || !isSpace(p.src[nameEnd]) {
		return docInfo{end: p.pos}
	}

	info := docInfo{present: true, docType: name, end: closing + 1}
	titleEnd := p.skipSpace(nameEnd, closing)
	for titleEnd < closing && p.src[titleEnd] != '[' && p.src[titleEnd] != '\n' {
		titleEnd++
	}
	info.titleBegin, info.titleEnd = p.trimRange(nameEnd, titleEnd)

	b := value.NewBuilder()
	groups, stray := p.bracketGroups(titleEnd, closing)
	if stray >= 0 {
		p.s.errorAt(p.f, stray, "Unexpected text in document info")
	}
	for _, g := range groups {
		attrName, valueBegin := p.splitTarget(g[0], g[1])
		valueBegin, valueEnd := p.trimRange(valueBegin, g[1])
		attr, known := docAttributes[attrName]
		if !known {
			p.s.warningAt(p.f, g[0], "Unknown docinfo attribute: %s", attrName)
			b.Insert(value.Span(p.span(g[0], g[1]), tagDocUnknown))
			continue
		}
		b.Insert(value.Span(p.span(valueBegin, valueEnd), attr.tag))
	}
	b.SortList()

	c := value.NewConsumer(b.Release())
	single := func(name string, tag value.Tag) value.Value {
		all := c.ConsumeAll(tag)
		if len(all) == 0 {
			return value.Value{}
		}
		if len(all) > 1 {
			span, _ := all[1].SourceSpan()
			p.s.errorAt(p.f, span.Begin, "Duplicate %s attribute", name)
		}
		return all[0]
	}
	info.quickbook = single("quickbook", tagDocQuickbook)
	info.compatibility = single("compatibility-mode", tagDocCompatibility)
	info.id = single("id", tagDocID)
	info.dirname = single("dirname", tagDocDirname)
	info.lastRevision = single("last-revision", tagDocLastRevision)
	info.version = single("version", tagDocVersion)
	info.lang = single("lang", tagDocLang)
	info.sourceMode = single("source-mode", tagDocSourceMode)
	info.authors = c.ConsumeAll(tagDocAuthors)
	info.copyrights = c.ConsumeAll(tagDocCopyright)
	info.license = single("license", tagDocLicense)
	info.purpose = single("purpose", tagDocPurpose)
	info.categories = c.ConsumeAll(tagDocCategory)
	info.biblioIDs = c.ConsumeAll(tagDocBiblioID)
	c.ConsumeAll(tagDocUnknown)
	p.finish(c, "doc info")
	return info
}

// applyVersion sets the running versions from the header. inherited is
// used when the header names no version.
func (p *parser) applyVersion(info *docInfo, inherited int) {
	s := p.s
	s.version = inherited
	if info.quickbook.Check() {
		span, _ := info.quickbook.SourceSpan()
		v, err := ParseVersion(info.quickbook.String())
		switch {
		case err != nil && v > LatestVersion:
			s.errorAt(p.f, span.Begin, "Unknown version of quickbook: quickbook %s", info.quickbook.String())
			s.version = LatestVersion
		case err != nil:
			s.errorAt(p.f, span.Begin, "Invalid quickbook version: %s", info.quickbook.String())
		default:
			s.version = v
		}
	}

	s.idVersion = s.version
	if info.compatibility.Check() {
		span, _ := info.compatibility.SourceSpan()
		if v, err := ParseVersion(info.compatibility.String()); err == nil {
			s.idVersion = v
		} else {
			s.errorAt(p.f, span.Begin, "Invalid compatibility mode: %s", info.compatibility.String())
		}
	}

	if info.sourceMode.Check() {
		mode := info.sourceMode.String()
		if mode == "c++" || mode == "python" || mode == "teletype" {
			s.sourceMode = mode
		} else {
			span, _ := info.sourceMode.SourceSpan()
			s.errorAt(p.f, span.Begin, "Invalid source mode: %s", mode)
		}
	}
	p.f.Version = s.version
}

// phraseValue renders a span value as phrase markup.
func (p *parser) phraseValue(v value.Value) string {
	span, err := v.SourceSpan()
	if err != nil {
		return ""
	}
	return p.phraseRange(p.f, span.Begin, span.End, phraseOnly)
}

// docHeader renders the opening tag of a document, its title and info.
func (p *parser) docHeader(info *docInfo, idToken string, top bool) string {
	s := p.s
	var out strings.Builder
	doc := info.docType
	title := p.phraseRange(p.f, info.titleBegin, info.titleEnd, phraseOnly)

	if top {
		out.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
		out.WriteString(`<!DOCTYPE ` + doc + ` PUBLIC "-//Boost//DTD BoostBook XML V1.0//EN" ` +
			`"http://www.boost.org/tools/boostbook/dtd/boostbook.dtd">` + "\n")
	}

	out.WriteString("<" + doc)
	if idToken != "" {
		out.WriteString(` id="` + idToken + `"`)
	}
	if doc == "library" {
		out.WriteString(` name="` + encodeAttr(ids.StripTags(title)) + `"`)
		if info.dirname.Check() {
			out.WriteString(` dirname="` + encodeAttr(info.dirname.String()) + `"`)
		}
	}
	switch {
	case info.lastRevision.Check():
		out.WriteString(` last-revision="` + encodeAttr(info.lastRevision.String()) + `"`)
	case top:
		out.WriteString(` last-revision="` + s.opts.now().UTC().Format("2006/01/02 15:04:05") + `"`)
	}
	if info.lang.Check() {
		out.WriteString(` lang="` + encodeAttr(info.lang.String()) + `"`)
	}
	if top {
		out.WriteString(` xmlns:xi="http://www.w3.org/2001/XInclude"`)
	}
	out.WriteString(">\n")

	if info.version.Check() && doc != "library" {
		title += " " + encodeText(info.version.String())
	}
	out.WriteString("<title>" + title + "</title>\n")

	var body strings.Builder
	for _, authors := range info.authors {
		p.writeAuthors(&body, authors)
	}
	for _, copyright := range info.copyrights {
		p.writeCopyright(&body, copyright)
	}
	if info.license.Check() {
		id := s.ids.AddID("legal", ids.CategoryGenerated)
		body.WriteString(`<legalnotice id="` + id + `">` + "\n<para>\n" + p.phraseValue(info.license) + "\n</para>\n</legalnotice>\n")
	}
	if info.purpose.Check() {
		body.WriteString("<" + doc + "purpose>\n" + p.phraseValue(info.purpose) + "\n</" + doc + "purpose>\n")
	}
	for _, category := range info.categories {
		body.WriteString("<" + doc + `category name="category:` + encodeAttr(category.String()) + `"></` + doc + "category>\n")
	}
	for _, biblio := range info.biblioIDs {
		class, rest := p.splitTarget(biblioRange(biblio))
		span, _ := biblio.SourceSpan()
		body.WriteString(`<biblioid class="` + encodeAttr(class) + `">` + encodeText(p.src[rest:span.End]) + "</biblioid>\n")
	}
	if body.Len() > 0 {
		out.WriteString("<" + doc + "info>\n" + body.String() + "</" + doc + "info>\n")
	}
	return out.String()
}

func biblioRange(v value.Value) (int, int) {
	span, _ := v.SourceSpan()
	return span.Begin, span.End
}

// writeAuthors renders [authors [Surname, First] ...].
func (p *parser) writeAuthors(out *strings.Builder, v value.Value) {
	span, _ := v.SourceSpan()
	groups, _ := p.bracketGroups(span.Begin, span.End)
	if len(groups) == 0 {
		return
	}
	out.WriteString("<authorgroup>\n")
	for _, g := range groups {
		surname, first, _ := strings.Cut(p.src[g[0]:g[1]], ",")
		out.WriteString("<author>\n<firstname>" + encodeText(strings.TrimSpace(first)) +
			"</firstname>\n<surname>" + encodeText(strings.TrimSpace(surname)) + "</surname>\n</author>\n")
	}
	out.WriteString("</authorgroup>\n")
}

// writeCopyright renders [copyright 2001 2002 Holder].
func (p *parser) writeCopyright(out *strings.Builder, v value.Value) {
	fields := strings.Fields(v.String())
	out.WriteString("<copyright>\n")
	i := 0
	for ; i < len(fields) && isYear(fields[i]); i++ {
		out.WriteString("<year>" + strings.TrimSuffix(fields[i], ",") + "</year>\n")
	}
	out.WriteString("<holder>" + encodeText(strings.Join(fields[i:], " ")) + "</holder>\n")
	out.WriteString("</copyright>\n")
}

func isYear(s string) bool {
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
