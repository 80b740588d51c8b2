// Package snippets slices named regions out of C++ and Python sources.
// A region opens with a marker comment such as //[name and closes with
// //]. Each region becomes a quickbook body in which code runs are
// fenced code blocks and escaped comments are quickbook markup.
package snippets

import (
	"strings"

	"github.com/yaklabco/quickbook/pkg/files"
)

// Snippet is one named region.
type Snippet struct {
	ID string

	// Body is quickbook markup mapped back onto the source file.
	Body *files.File

	// Mode is the source mode the code should be highlighted with.
	Mode string
}

type codeRange struct{ begin, end int }

type pending struct {
	id   string
	b    *files.MappedFileBuilder
	code []codeRange
}

type extractor struct {
	file   *files.File
	src    string
	mode   string
	open   []*pending
	done   []Snippet
	ignore int
}

// Extract returns the snippets of a source file in the order they close.
// Mode selects the marker syntax: "python" or anything else for C++.
func Extract(f *files.File, mode string) []Snippet {
	x := &extractor{file: f, src: f.Source, mode: mode}
	if mode == "python" {
		x.scanPython()
	} else {
		x.scanCpp()
	}
	for len(x.open) > 0 {
		x.end(len(x.src))
	}
	return x.done
}

func (x *extractor) begin(id string) {
	b := files.NewMappedFileBuilder()
	b.Start(x.file)
	x.open = append(x.open, &pending{id: id, b: b})
}

func (x *extractor) end(pos int) {
	if len(x.open) == 0 {
		return
	}
	p := x.open[len(x.open)-1]
	x.open = x.open[:len(x.open)-1]
	x.flush(p, pos)
	body := p.b.Release()
	body.IsCodeSnippets = true
	x.done = append(x.done, Snippet{ID: p.id, Body: body, Mode: x.mode})
}

// code hands source text to every open snippet.
func (x *extractor) code(begin, end int) {
	if begin >= end || x.ignore > 0 {
		return
	}
	for _, p := range x.open {
		p.code = append(p.code, codeRange{begin, end})
	}
}

// markup hands an escaped comment's content to every open snippet.
// Leading blanks are dropped so the text does not read as code.
func (x *extractor) markup(begin, end int) {
	if x.ignore > 0 {
		return
	}
	for begin < end && (x.src[begin] == ' ' || x.src[begin] == '\t') {
		begin++
	}
	for _, p := range x.open {
		x.flush(p, begin)
		p.b.AddRange(begin, end)
		p.b.AddAtPos("\n", end)
	}
}

// flush writes the buffered code of p as a fenced code block, dropping
// blank lines at either end.
func (x *extractor) flush(p *pending, pos int) {
	ranges := p.code
	p.code = nil
	for len(ranges) > 0 {
		r := &ranges[0]
		skip, blank := leadingBlankLines(x.src[r.begin:r.end])
		if blank {
			ranges = ranges[1:]
			continue
		}
		r.begin += skip
		break
	}
	for len(ranges) > 0 {
		r := &ranges[len(ranges)-1]
		text := x.src[r.begin:r.end]
		trimmed := strings.TrimRight(text, " \t\n")
		if trimmed == "" {
			ranges = ranges[:len(ranges)-1]
			continue
		}
		r.end = r.begin + len(trimmed)
		break
	}
	if len(ranges) == 0 {
		return
	}

	p.b.AddAtPos("\n\n```\n", ranges[0].begin)
	for _, r := range ranges {
		p.b.AddRange(r.begin, r.end)
	}
	p.b.AddAtPos("\n```\n\n", pos)
}

// leadingBlankLines returns the length of the blank lines that start
// text, and whether text is blank altogether.
func leadingBlankLines(text string) (int, bool) {
	skip := 0
	for {
		nl := strings.IndexByte(text[skip:], '\n')
		if nl < 0 {
			return skip, strings.TrimSpace(text[skip:]) == ""
		}
		if strings.TrimSpace(text[skip:skip+nl]) != "" {
			return skip, false
		}
		skip += nl + 1
	}
}

// lineEnd returns the offset after the line containing pos.
func (x *extractor) lineEnd(pos int) int {
	if nl := strings.IndexByte(x.src[pos:], '\n'); nl >= 0 {
		return pos + nl + 1
	}
	return len(x.src)
}

// lineMarker checks whether the line starting at pos consists of
// optional blanks and the comment marker prefix. It returns the offset
// after the marker.
func (x *extractor) lineMarker(pos int, marker string) (int, bool) {
	i := pos
	for i < len(x.src) && (x.src[i] == ' ' || x.src[i] == '\t') {
		i++
	}
	if strings.HasPrefix(x.src[i:], marker) {
		return i + len(marker), true
	}
	return 0, false
}

func identifierEnd(s string, pos int) int {
	for pos < len(s) {
		c := s[pos]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			pos++
			continue
		}
		break
	}
	return pos
}

// lineCommon handles the whole-line markers shared by both languages,
// given the comment introducer. It returns the position after the
// consumed line, or -1.
func (x *extractor) lineCommon(pos int, comment string) int {
	if after, ok := x.lineMarker(pos, comment+"["); ok {
		if end := identifierEnd(x.src, after); end > after {
			if x.ignore == 0 {
				x.begin(x.src[after:end])
			}
			return x.lineEnd(pos)
		}
	}
	if _, ok := x.lineMarker(pos, comment+"]"); ok {
		if x.ignore == 0 {
			x.end(pos)
		}
		return x.lineEnd(pos)
	}
	if _, ok := x.lineMarker(pos, comment+"<-"); ok {
		x.ignore++
		return x.lineEnd(pos)
	}
	if _, ok := x.lineMarker(pos, comment+"->"); ok {
		if x.ignore > 0 {
			x.ignore--
		}
		return x.lineEnd(pos)
	}
	if after, ok := x.lineMarker(pos, comment+"`"); ok {
		end := x.lineEnd(pos)
		textEnd := end
		if textEnd > after && x.src[textEnd-1] == '\n' {
			textEnd--
		}
		x.markup(after, textEnd)
		return end
	}
	return -1
}
