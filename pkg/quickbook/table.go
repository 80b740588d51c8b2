package quickbook

import (
	"strconv"
	"strings"

	"github.com/yaklabco/quickbook/pkg/ids"
	"github.com/yaklabco/quickbook/pkg/value"
)

// tableTitle splits a table body into its title and the offset its rows
// start at. From 1.7 the title is the rest of the first line and may hold
// markup; before that it stops at the first bracket.
func (p *parser) tableTitle(e *element) (int, int, int) {
	begin := e.body
	for begin < e.close && isBlankChar(p.src[begin]) {
		begin++
	}
	end := p.lineEnd(begin)
	if end > e.close {
		end = e.close
	}
	if !p.s.since(107) {
		if i := strings.IndexByte(p.src[begin:end], '['); i >= 0 {
			end = begin + i
		}
	}
	rows := end
	titleBegin, titleEnd := p.trimRange(begin, end)
	return titleBegin, titleEnd, rows
}

// tableRows collects [[cell]...] rows into a value tree.
func (p *parser) tableRows(begin, end int) value.Value {
	b := value.NewBuilder()
	b.StartList(tagTable)
	rows, stray := p.bracketGroups(begin, end)
	if stray >= 0 {
		p.s.errorAt(p.f, stray, "Unexpected text in table")
	}
	for _, row := range rows {
		cells, stray := p.bracketGroups(row[0], row[1])
		if stray >= 0 {
			p.s.errorAt(p.f, stray, "Unexpected text in table row")
		}
		b.StartList(tagTableRow)
		for _, cell := range cells {
			b.Insert(value.Span(p.span(cell[0], cell[1]), tagTableCell))
		}
		b.FinishList()
	}
	b.FinishList()
	return b.Release().Values()[0]
}

func (p *parser) tableElement(e *element) {
	p.endParagraph()
	titleBegin, titleEnd, rowsBegin := p.tableTitle(e)
	title := p.phraseRange(p.f, titleBegin, titleEnd, p.flags)

	var idAttr string
	switch {
	case e.id != "":
		idAttr = ` id="` + p.s.ids.AddID(e.id, ids.CategoryExplicitID) + `"`
	case titleBegin < titleEnd && p.s.idVersion >= 105:
		idAttr = ` id="` + p.s.ids.AddID(p.generatedID(titleBegin, titleEnd, title), ids.CategoryGenerated) + `"`
	}

	table := p.tableRows(rowsBegin, e.close)
	rows := table.Values()
	cols := 0
	for _, row := range rows {
		cols = max(cols, row.Len())
	}

	var out strings.Builder
	if titleBegin < titleEnd {
		out.WriteString(`<table frame="all"` + idAttr + ">\n<title>" + title + "</title>\n")
	} else {
		out.WriteString(`<informaltable frame="all"` + idAttr + ">\n")
	}
	out.WriteString(`<tgroup cols="` + strconv.Itoa(cols) + `">` + "\n")

	c := value.NewConsumer(table)
	if len(rows) > 1 {
		out.WriteString("<thead>")
		p.tableRow(&out, c.Consume(tagTableRow))
		out.WriteString("</thead>\n")
	}
	out.WriteString("<tbody>\n")
	for c.IsTag(tagTableRow) {
		p.tableRow(&out, c.Consume(tagTableRow))
	}
	p.finish(c, "table")
	out.WriteString("</tbody>\n</tgroup>\n")

	if titleBegin < titleEnd {
		out.WriteString("</table>\n")
	} else {
		out.WriteString("</informaltable>\n")
	}
	p.writeBlock(out.String())
}

func (p *parser) tableRow(out *strings.Builder, row value.Value) {
	out.WriteString("<row>\n")
	c := value.NewConsumer(row)
	for c.IsTag(tagTableCell) {
		span, _ := c.Consume(tagTableCell).SourceSpan()
		out.WriteString("<entry>" + strings.TrimSpace(p.blockRange(p.f, span.Begin, span.End, nestedBlock)) + "</entry>\n")
	}
	p.finish(c, "table row")
	out.WriteString("</row>\n")
}

// variablelistElement renders [variablelist title [[term][definition]...]...].
func (p *parser) variablelistElement(e *element) {
	p.endParagraph()
	titleBegin, titleEnd, rowsBegin := p.tableTitle(e)
	title := p.phraseRange(p.f, titleBegin, titleEnd, p.flags)

	var out strings.Builder
	out.WriteString("<variablelist")
	if e.id != "" {
		out.WriteString(` id="` + p.s.ids.AddID(e.id, ids.CategoryExplicitID) + `"`)
	}
	out.WriteString(">\n")
	if titleBegin < titleEnd {
		out.WriteString("<title>" + title + "</title>\n")
	}

	c := value.NewConsumer(p.tableRows(rowsBegin, e.close))
	for c.IsTag(tagTableRow) {
		entry := value.NewConsumer(c.Consume(tagTableRow))
		if !entry.HasMore() {
			p.finish(entry, "variablelist entry")
			continue
		}
		term, _ := entry.Consume(tagTableCell).SourceSpan()
		termBegin, termEnd := p.trimRange(term.Begin, term.End)
		out.WriteString("<varlistentry>\n<term>" + p.phraseRange(p.f, termBegin, termEnd, p.flags) + "</term>\n<listitem>\n")
		for entry.IsTag(tagTableCell) {
			span, _ := entry.Consume(tagTableCell).SourceSpan()
			out.WriteString(p.blockRange(p.f, span.Begin, span.End, nestedBlock))
		}
		p.finish(entry, "variablelist entry")
		out.WriteString("</listitem>\n</varlistentry>\n")
	}
	p.finish(c, "variablelist")
	out.WriteString("</variablelist>\n")
	p.writeBlock(out.String())
}
