package quickbook

import (
	"strings"

	"github.com/yaklabco/quickbook/pkg/files"
	"github.com/yaklabco/quickbook/pkg/highlight"
	"github.com/yaklabco/quickbook/pkg/ids"
)

// indentedCode reads lines indented past threshold as a code block.
// Blank lines inside the block belong to it; trailing ones do not.
func (p *parser) indentedCode(threshold int) {
	begin := p.pos
	end := begin
	pos := begin
	for pos < p.end {
		lineEnd := p.lineEnd(pos)
		line := p.src[pos:lineEnd]
		if !isBlank(line) {
			indent := files.IndentWidth(files.LeadingWhitespace(line))
			if indent-p.base <= threshold {
				break
			}
			end = lineEnd
		}
		pos = p.nextLine(lineEnd)
	}
	p.endParagraph()
	p.codeBlock(begin, end)
	p.pos = p.nextLine(end)
}

// fencedCode reads a ``` block up to the closing fence or the end of
// the range.
func (p *parser) fencedCode(indentEnd int) {
	openEnd := p.lineEnd(indentEnd)
	begin := p.nextLine(openEnd)
	end, next := p.end, p.end
	for pos := begin; pos < p.end; {
		lineEnd := p.lineEnd(pos)
		if strings.HasPrefix(strings.TrimLeft(p.src[pos:lineEnd], " \t"), "```") {
			end, next = pos, p.nextLine(lineEnd)
			break
		}
		pos = p.nextLine(lineEnd)
	}
	if end > begin && p.src[end-1] == '\n' {
		end--
	}
	p.endParagraph()
	p.codeBlock(begin, end)
	p.pos = next
}

type callout struct {
	id, listID string
	begin, end int
}

// codeBlock highlights [begin, end) in the current source mode and
// writes a program listing, followed by the callout list when the code
// contains callouts.
func (p *parser) codeBlock(begin, end int) {
	b := files.NewMappedFileBuilder()
	b.Start(p.f)
	b.UnindentAndAdd(begin, end)
	code := b.Release()
	code.Version = p.s.version

	var callouts []callout
	hooks := highlight.Hooks{
		Macro: p.s.macros.match,
		Escape: func(begin, end int) string {
			return p.phraseRange(code, begin, end, phraseOnly)
		},
	}
	if p.s.since(107) || p.f.IsCodeSnippets {
		hooks.Callout = func(begin, end int) string {
			c := callout{
				id:     p.s.ids.AddID("c", ids.CategoryNumbered),
				listID: p.s.ids.AddID("c", ids.CategoryNumbered),
				begin:  begin,
				end:    end,
			}
			callouts = append(callouts, c)
			return `<co id="` + c.id + `" linkends="` + c.listID + `" />`
		}
	}

	text := highlight.ForMode(p.s.sourceMode).Highlight(code.Source, hooks)
	p.writeBlock("<programlisting>" + text + "</programlisting>\n")
	if len(callouts) == 0 {
		return
	}

	var out strings.Builder
	out.WriteString("<calloutlist>\n")
	for _, c := range callouts {
		out.WriteString(`<callout arearefs="` + c.id + `" id="` + c.listID + `">` + "\n")
		out.WriteString(p.blockRange(code, c.begin, c.end, nestedBlock))
		out.WriteString("</callout>\n")
	}
	out.WriteString("</calloutlist>\n")
	p.writeBlock(out.String())
}
