package quickbook_test

import (
	"context"
	"strings"
	"testing"

	"github.com/yaklabco/quickbook/pkg/quickbook"
)

func benchmarkDocument(sections int) string {
	var b strings.Builder
	b.WriteString("[article Bench\n[quickbook 1.7]\n]\n\n")
	b.WriteString("[template note_box[title body] [note [*[title]] [body]]]\n\n")
	for i := range sections {
		b.WriteString("[section Part ")
		b.WriteString(strings.Repeat("x", i%7+1))
		b.WriteString("]\n\nSome *bold* and /italic/ text with `code` and a [link bench.part_x link].\n\n")
		b.WriteString("* one\n* two\n  # nested\n\n")
		b.WriteString("[table\n[[A][B]]\n[[1][2]]\n]\n\n")
		b.WriteString("[note_box Heads up..Mind the gap.]\n\n")
		b.WriteString("    int main() { return 0; }\n\n")
		b.WriteString("[endsect]\n")
	}
	return b.String()
}

func BenchmarkCompile(b *testing.B) {
	source := benchmarkDocument(50)
	opts := testOptions()

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))
	for b.Loop() {
		if _, err := quickbook.CompileString(context.Background(), "bench.qbk", source, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompilePrettyPrint(b *testing.B) {
	source := benchmarkDocument(50)
	opts := testOptions()
	opts.PrettyPrint = true

	b.ReportAllocs()
	for b.Loop() {
		if _, err := quickbook.CompileString(context.Background(), "bench.qbk", source, opts); err != nil {
			b.Fatal(err)
		}
	}
}
