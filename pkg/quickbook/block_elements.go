package quickbook

import (
	"strconv"
	"strings"

	"github.com/yaklabco/quickbook/pkg/files"
	"github.com/yaklabco/quickbook/pkg/ids"
	"github.com/yaklabco/quickbook/pkg/templates"
	"github.com/yaklabco/quickbook/pkg/value"
)

// generatedID derives an id from a title: from the rendered markup in
// newer documents, from the source text in older ones.
func (p *parser) generatedID(begin, end int, title string) string {
	if p.s.idVersion >= 106 {
		return ids.FromTitle(title)
	}
	return ids.MakeID(p.src[begin:end])
}

func (p *parser) sectionElement(e *element) {
	p.endParagraph()
	begin, end := e.bodyRange(p)
	title := p.phraseRange(p.f, begin, end, p.flags)

	id, category := e.id, ids.CategoryExplicitSectionID
	if id == "" {
		id, category = p.generatedID(begin, end, title), ids.CategoryGeneratedSection
	}
	token := p.s.ids.BeginSection(id, category)
	p.s.logger.Debug("section", "id", id, "level", p.s.ids.SectionLevel())

	p.writeBlock(`<section id="` + token + `">` + "\n<title>" + title + "</title>\n")
}

func (p *parser) endsectElement(e *element) {
	p.endParagraph()
	if p.s.ids.FileSectionLevel() <= 0 || p.s.ids.SectionLevel() <= p.s.minSectionLevel {
		p.s.errorAt(p.f, e.open, "Mismatched [endsect]")
		return
	}
	p.s.ids.EndSection()
	p.writeBlock("</section>\n")
}

// closeSections closes the sections opened since level, warning about
// each one.
func (p *parser) closeSections(level int, offset int) {
	for p.s.ids.SectionLevel() > level && p.s.ids.FileSectionLevel() > 0 {
		p.s.warningAt(p.f, offset, "Missing [endsect]")
		p.s.ids.EndSection()
		p.writeBlock("</section>\n")
	}
}

// headingElement renders [hN title]; level 0 is [heading], whose level
// follows the section depth.
func headingElement(level int) elementHandler {
	return func(p *parser, e *element) {
		p.endParagraph()
		n := level
		if n == 0 {
			n = min(p.s.ids.SectionLevel()+1, 6)
		}
		p.heading(e, n)
	}
}

func (p *parser) heading(e *element, level int) {
	begin, end := e.bodyRange(p)
	title := p.phraseRange(p.f, begin, end, p.flags)

	var token string
	switch {
	case e.id != "":
		token = p.s.ids.AddID(e.id, ids.CategoryExplicitID)
	case p.s.idVersion >= 106:
		token = p.s.ids.AddID(p.generatedID(begin, end, title), ids.CategoryGeneratedHeading)
	case p.s.idVersion >= 103:
		token = p.s.ids.OldStyleID(ids.MakeID(p.src[begin:end]), ids.CategoryGeneratedHeading)
	default:
		token = p.s.ids.OldStyleID("h"+strconv.Itoa(level), ids.CategoryNumbered)
	}

	content := title
	if p.s.opts.SelfLinkedHeaders {
		content = `<link linkend="` + token + `">` + title + "</link>"
	}
	p.writeBlock(`<anchor id="` + token + `"/>` + "\n" +
		`<bridgehead renderas="sect` + strconv.Itoa(level) + `">` + content + "</bridgehead>\n")
}

// wrapBlock renders an element whose body is nested block content.
func wrapBlock(open, closing string) elementHandler {
	return func(p *parser, e *element) {
		p.endParagraph()
		body := p.blockRange(p.f, e.body, e.close, nestedBlock)
		p.writeBlock(open + body + closing)
	}
}

// preformattedElement renders [pre ...], keeping line breaks and
// indentation relative to the least indented line.
func (p *parser) preformattedElement(e *element) {
	p.endParagraph()
	begin := e.body
	if lineEnd := p.lineEnd(begin); isBlank(p.src[begin:lineEnd]) && lineEnd < e.close {
		begin = lineEnd + 1
	}
	end := e.close
	for end > begin && isSpace(p.src[end-1]) {
		end--
	}

	b := files.NewMappedFileBuilder()
	b.Start(p.f)
	b.UnindentAndAdd(begin, end)
	body := b.Release()
	body.Version = p.s.version

	content := p.phraseRange(body, 0, len(body.Source), p.flags)
	p.writeBlock("<programlisting>" + content + "</programlisting>\n")
}

// bracketGroups returns the inner ranges of the top level [...] groups
// in [begin, end). Comments are skipped; other text stops the scan and
// is reported by its offset.
func (p *parser) bracketGroups(begin, end int) ([][2]int, int) {
	var groups [][2]int
	pos := p.skipSpace(begin, end)
	for pos < end {
		if p.src[pos] != '[' {
			return groups, pos
		}
		closing := p.matchBracket(pos)
		if closing < 0 || closing >= end {
			return groups, pos
		}
		if !strings.HasPrefix(p.src[pos:], "[/") {
			groups = append(groups, [2]int{pos + 1, closing})
		}
		pos = p.skipSpace(closing+1, end)
	}
	return groups, -1
}

// listElement renders [ordered_list [item]...] and [itemized_list ...].
func listElement(tag string) elementHandler {
	return func(p *parser, e *element) {
		p.endParagraph()
		items, stray := p.bracketGroups(e.body, e.close)
		if stray >= 0 {
			p.s.errorAt(p.f, stray, "Unexpected text in %s", tag)
		}

		b := value.NewBuilder()
		for _, item := range items {
			begin, end := p.trimRange(item[0], item[1])
			b.Insert(value.Span(p.span(begin, end), tagListItem))
		}

		var out strings.Builder
		out.WriteString("<" + tag + ">\n")
		c := value.NewConsumer(b.Release())
		for c.IsTag(tagListItem) {
			span, _ := c.Consume(tagListItem).SourceSpan()
			out.WriteString("<listitem>\n<simpara>\n" + p.phraseRange(p.f, span.Begin, span.End, p.flags) + "\n</simpara>\n</listitem>\n")
		}
		p.finish(c, tag)
		out.WriteString("</" + tag + ">\n")
		p.writeBlock(out.String())
	}
}

// defElement defines a macro. The expansion is rendered immediately.
func (p *parser) defElement(e *element) {
	begin, end := e.bodyRange(p)
	nameEnd := begin
	for nameEnd < end && !isSpace(p.src[nameEnd]) {
		nameEnd++
	}
	name := p.src[begin:nameEnd]
	if !validMacroName(name) {
		p.s.errorAt(p.f, e.open, "Invalid macro name '%s'", name)
		return
	}
	expBegin, expEnd := p.trimRange(nameEnd, end)
	expansion := p.phraseRange(p.f, expBegin, expEnd, p.flags)
	p.s.macros.define(name, expansion)
}

// templateElement defines a template: [template name[params] body].
func (p *parser) templateElement(e *element) {
	pos := p.skipSpace(e.body, e.close)
	nameEnd := pos
	for nameEnd < e.close && isIdentChar(p.src[nameEnd]) {
		nameEnd++
	}
	name := p.src[pos:nameEnd]
	if name == "" || !isIdentStart(name[0]) {
		p.s.errorAt(p.f, e.open, "Invalid template name")
		return
	}

	var params []string
	bodyBegin := nameEnd
	// Parameters must follow the name directly; "[template x [y]]" has a body.
	if rest := nameEnd; rest < e.close && p.src[rest] == '[' {
		closing := p.matchBracket(rest)
		if closing < 0 || closing > e.close {
			p.s.errorAt(p.f, rest, "Invalid template parameters")
			return
		}
		params = strings.Fields(p.src[rest+1 : closing])
		bodyBegin = closing + 1
	}

	bodyEnd := e.close
	for bodyEnd > bodyBegin && isSpace(p.src[bodyEnd-1]) {
		bodyEnd--
	}
	// A body on the following lines is block content; only leading
	// blanks are dropped so the line break stays visible.
	for bodyBegin < bodyEnd && isBlankChar(p.src[bodyBegin]) {
		bodyBegin++
	}

	kind := templates.KindPhrase
	if templates.IsBlockBody(p.src[bodyBegin:bodyEnd]) {
		kind = templates.KindBlock
	}
	sym := &templates.Symbol{
		Name:   name,
		Params: params,
		Body:   value.Span(p.span(bodyBegin, bodyEnd), tagTemplateBody),
		Kind:   kind,
	}
	if p.s.since(105) {
		sym.Lexical = p.s.templates.Top()
	}
	if !p.s.templates.Add(sym) {
		p.s.errorAt(p.f, e.open, "Template Redefinition: %s", name)
		return
	}
	p.s.logger.Debug("template defined", "name", name, "params", len(params), "kind", kind)
}
