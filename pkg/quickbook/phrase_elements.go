package quickbook

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yaklabco/quickbook/pkg/ids"
	"github.com/yaklabco/quickbook/pkg/value"
)

func simplePhrase(open, closing string) elementHandler {
	return func(p *parser, e *element) {
		begin, end := e.bodyRange(p)
		p.writePhrase(open + p.phraseRange(p.f, begin, end, p.flags) + closing)
	}
}

func (p *parser) footnoteElement(e *element) {
	begin, end := e.bodyRange(p)
	token := p.s.ids.AddID("f", ids.CategoryNumbered)
	content := p.phraseRange(p.f, begin, end, p.flags)
	p.writePhrase(`<footnote id="` + token + `"><para>` + content + "</para></footnote>")
}

// splitTarget splits a body into its first word and the rest.
func (p *parser) splitTarget(begin, end int) (string, int) {
	targetEnd := begin
	for targetEnd < end && !isSpace(p.src[targetEnd]) {
		targetEnd++
	}
	return p.src[begin:targetEnd], p.skipSpace(targetEnd, end)
}

// linkElement renders [link target text] and its relatives. The target
// doubles as the text when none is given.
func linkElement(tag, attr string) elementHandler {
	return func(p *parser, e *element) {
		begin, end := e.bodyRange(p)
		target, textBegin := p.splitTarget(begin, end)
		text := p.phraseRange(p.f, textBegin, end, p.flags)
		if isBlank(text) {
			text = encodeText(target)
		}
		attrValue := target
		if attr == "linkend" {
			attrValue = ids.Escape(target)
		}
		p.writePhrase("<" + tag + " " + attr + `="` + encodeAttr(attrValue) + `">` + text + "</" + tag + ">")
	}
}

func (p *parser) anchorElement(e *element) {
	begin, end := e.bodyRange(p)
	token := p.s.ids.AddAnchor(p.src[begin:end], ids.CategoryExplicitAnchorID)
	p.maybeBlock(`<anchor id="` + token + `"/>`)
}

// maybeBlock writes markup to the block output when the element stands
// alone, and inline otherwise.
func (p *parser) maybeBlock(markup string) {
	if p.flags&allowBlock != 0 && p.paragraphEmpty() {
		p.writeBlock(markup + "\n")
		return
	}
	p.writePhrase(markup)
}

func sourceModeElement(mode string) elementHandler {
	return func(p *parser, e *element) {
		if begin, end := e.bodyRange(p); begin < end {
			p.s.warningAt(p.f, begin, "Ignoring content of source mode element '%s'", mode)
		}
		p.s.sourceMode = mode
	}
}

func (p *parser) roleElement(e *element) {
	begin, end := e.bodyRange(p)
	role, textBegin := p.splitTarget(begin, end)
	text := p.phraseRange(p.f, textBegin, end, p.flags)
	p.writePhrase(`<phrase role="` + encodeAttr(role) + `">` + text + "</phrase>")
}

func (p *parser) breakElement(e *element) {
	if p.s.since(106) {
		p.s.warningAt(p.f, e.open, "[br] is deprecated, use \\n instead")
	}
	p.writePhrase("<sbr/>")
}

// conditionalElement expands its content only when the macro is defined.
func (p *parser) conditionalElement(e *element) {
	begin, end := e.body, e.close
	nameEnd := begin
	for nameEnd < end && !isSpace(p.src[nameEnd]) {
		nameEnd++
	}
	if _, defined := p.s.macros.find(p.src[begin:nameEnd]); !defined {
		return
	}
	contentBegin, contentEnd := p.trimRange(nameEnd, end)
	p.writePhrase(p.phraseRange(p.f, contentBegin, contentEnd, p.flags|inConditional))
}

func (p *parser) escapedTemplateElement(e *element) {
	nameBegin := e.body
	nameEnd := nameBegin
	for nameEnd < e.close && isIdentChar(p.src[nameEnd]) {
		nameEnd++
	}
	sym := p.findTemplate(p.src[nameBegin:nameEnd])
	if sym == nil {
		p.s.errorAt(p.f, e.open, "Unknown template '%s'", p.src[nameBegin:nameEnd])
		p.writePhrase(`<phrase role="error">` + encodeText(p.src[e.open:e.close+1]) + "</phrase>")
		return
	}
	p.callTemplate(sym, e.open, nameEnd, e.close, true)
}

// imageElement renders [$path [attr value]...].
func (p *parser) imageElement(e *element) {
	begin, end := e.bodyRange(p)
	pathEnd := begin
	for pathEnd < end && !isSpace(p.src[pathEnd]) && p.src[pathEnd] != '[' {
		pathEnd++
	}
	fileref := p.src[begin:pathEnd]

	alt := strings.TrimSuffix(path.Base(fileref), path.Ext(fileref))
	var extra strings.Builder
	c := value.NewConsumer(p.imageAttributes(pathEnd, end))
	for c.HasMore() {
		attr := value.NewConsumer(c.Consume(tagImageAttribute))
		name := attr.Consume(value.DefaultTag).String()
		val := attr.Consume(value.DefaultTag)
		switch name {
		case "alt":
			alt = val.String()
		case "width", "height", "scale", "format", "align", "contentwidth", "contentdepth":
			extra.WriteString(" " + name + `="` + encodeAttr(val.String()) + `"`)
		default:
			span, _ := val.SourceSpan()
			p.s.warningAt(p.f, span.Begin, "Unknown image attribute '%s'", name)
		}
	}

	p.trackImage(fileref)
	p.writePhrase(`<inlinemediaobject><imageobject><imagedata fileref="` + encodeAttr(fileref) + `"` +
		extra.String() + "></imagedata></imageobject><textobject><phrase>" + encodeText(alt) +
		"</phrase></textobject></inlinemediaobject>")
}

// imageAttributes collects the [name value] groups after an image path.
func (p *parser) imageAttributes(begin, end int) value.Value {
	var attrs []value.Value
	for pos := p.skipSpace(begin, end); pos < end && p.src[pos] == '['; pos = p.skipSpace(pos, end) {
		closing := p.matchBracket(pos)
		if closing < 0 || closing > end {
			break
		}
		name, valueBegin := p.splitTarget(pos+1, closing)
		valueBegin, valueEnd := p.trimRange(valueBegin, closing)
		attrs = append(attrs, value.List(tagImageAttribute,
			value.Span(p.span(pos+1, pos+1+len(name)), value.DefaultTag),
			value.Span(p.span(valueBegin, valueEnd), value.DefaultTag)))
		pos = closing + 1
	}
	return value.List(tagImageAttribute, attrs...)
}

func (p *parser) trackImage(fileref string) {
	if strings.Contains(fileref, "://") {
		return
	}
	dir := p.s.opts.ImageLocation
	if dir == "" {
		dir = filepath.Dir(p.f.Original().Path)
	}
	full := filepath.Join(dir, filepath.FromSlash(fileref))
	_, err := os.Stat(full)
	p.s.deps.Add(full, err == nil)
}
