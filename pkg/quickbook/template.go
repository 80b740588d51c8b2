package quickbook

import (
	"strings"

	"github.com/yaklabco/quickbook/pkg/files"
	"github.com/yaklabco/quickbook/pkg/templates"
	"github.com/yaklabco/quickbook/pkg/value"
)

// findTemplate looks a template up along the chain the running version
// uses: lexical from 1.5, dynamic before.
func (p *parser) findTemplate(name string) *templates.Symbol {
	chain := templates.Dynamic
	if p.s.since(105) {
		chain = templates.Lexical
	}
	return p.s.templates.Find(name, chain)
}

// templateArgs splits the text of a call into a list of argument spans.
// Arguments are separated by "..", or written as consecutive [groups]
// when the template takes several. When too few are found the last one
// is broken at whitespace.
func (p *parser) templateArgs(begin, end, want int) value.Value {
	b := value.NewBuilder()
	begin = p.skipSpace(begin, end)
	if begin >= end {
		return b.Release()
	}

	if want > 1 && p.src[begin] == '[' {
		b.Save()
		if p.bracketArgs(b, begin, end) {
			args := b.Release()
			b.Restore()
			return args
		}
		b.Restore()
	}

	argBegin := begin
	depth := 0
	for i := begin; i < end; i++ {
		switch p.src[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 && i+1 < end && p.src[i+1] == '.' {
				b.Insert(p.templateArg(argBegin, i))
				argBegin = i + 2
				i++
			}
		}
	}

	args := b.Release()
	lastBegin, lastEnd := argBegin, end
	for args.Len()+1 < want {
		split := p.firstSpace(lastBegin, lastEnd)
		if split < 0 {
			break
		}
		args, _ = value.Append(args, p.templateArg(lastBegin, split))
		lastBegin = p.skipSpace(split, lastEnd)
	}
	args, _ = value.Append(args, p.templateArg(lastBegin, lastEnd))
	return args
}

// bracketArgs inserts each [group] of [begin, end) as an argument. It
// fails on stray text or a single group.
func (p *parser) bracketArgs(b *value.Builder, begin, end int) bool {
	groups, stray := p.bracketGroups(begin, end)
	if stray >= 0 {
		return false
	}
	for _, g := range groups {
		b.Insert(p.templateArg(g[0], g[1]))
	}
	return len(groups) > 1
}

func (p *parser) templateArg(begin, end int) value.Value {
	return value.Span(p.span(begin, end), tagTemplateArg)
}

// firstSpace finds the first whitespace outside brackets.
func (p *parser) firstSpace(begin, end int) int {
	depth := 0
	for i := begin; i < end; i++ {
		switch c := p.src[i]; {
		case c == '\\':
			i++
		case c == '[':
			depth++
		case c == ']':
			depth--
		case depth == 0 && isSpace(c):
			return i
		}
	}
	return -1
}

// callTemplate expands sym at a call site. Arguments become parameterless
// templates visible in the body; their own content is looked up from the
// call site.
func (p *parser) callTemplate(sym *templates.Symbol, open, nameEnd, closing int, escaped bool) {
	s := p.s
	args := p.templateArgs(nameEnd, closing, len(sym.Params))
	if args.Len() != len(sym.Params) {
		s.errorAt(p.f, open,
			"Invalid number of arguments passed. Expecting: %d argument(s), got: %d argument(s) instead.",
			len(sym.Params), args.Len())
		p.writePhrase(`<phrase role="error">` + encodeText(p.src[open:closing+1]) + "</phrase>")
		return
	}
	if s.templateDepth >= MaxTemplateDepth {
		s.fail(ErrInfiniteLoop, p.f, open, "Infinite loop detected")
		return
	}

	s.templateDepth++
	defer func() { s.templateDepth-- }()
	s.logger.Debug("expanding template", "name", sym.Name, "kind", sym.Kind, "depth", s.templateDepth)

	save := s.Save(SaveFile | SaveCallables)
	defer save.Restore()

	callScope := s.templates.Top()
	s.templates.Push(sym.Lexical)
	c := value.NewConsumer(args)
	for _, param := range sym.Params {
		arg := c.Consume(tagTemplateArg)
		span, _ := arg.SourceSpan()
		kind := templates.KindPhrase
		switch {
		case escaped:
			kind = templates.KindEscape
		case templates.IsBlockBody(span.Text()):
			kind = templates.KindBlock
		}
		argSym := &templates.Symbol{
			Name: param,
			Body: arg,
			Kind: kind,
		}
		if s.since(105) {
			argSym.Lexical = callScope
		}
		s.templates.Set(argSym)
	}
	p.finish(c, "template arguments")

	body := sym.BodySpan()
	if body.File == nil {
		return
	}
	if v := body.File.Version; v != 0 && (s.since(106) || v >= 106) {
		s.version = v
	}
	s.file = body.File
	s.minSectionLevel = s.ids.SectionLevel()

	switch sym.Kind {
	case templates.KindEscape:
		p.writePhrase(body.Text())
	case templates.KindSnippet:
		s.sourceMode = sym.SourceMode
		p.expandBlock(body)
	case templates.KindBlock:
		p.expandBlock(body)
	default:
		p.writePhrase(p.phraseRange(body.File, body.Begin, body.End, p.flags))
	}

	if s.ids.SectionLevel() > s.minSectionLevel {
		s.errorAt(p.f, open, "Mismatched sections in template '%s'", sym.Name)
		for s.ids.SectionLevel() > s.minSectionLevel && s.ids.EndSection() {
			p.writeBlock("</section>\n")
		}
	}
}

// expandBlock renders a block body. In block context it ends the current
// paragraph; in phrase context older documents splice the rendered
// blocks inline while 1.7 parses the body as phrase content.
func (p *parser) expandBlock(body files.Span) {
	switch {
	case p.flags&allowBlock != 0:
		p.endParagraph()
		fl := nestedBlock
		if len(p.lists) == 0 {
			fl |= p.flags & allowSection
		}
		p.writeBlock(p.blockRange(body.File, body.Begin, body.End, fl))
	case p.s.ver(0, 107):
		p.writePhrase(strings.TrimSpace(p.blockRange(body.File, body.Begin, body.End, nestedBlock)))
	default:
		p.writePhrase(p.phraseRange(body.File, body.Begin, body.End, p.flags))
	}
}
