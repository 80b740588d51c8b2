package files_test

import (
	"testing"

	"github.com/yaklabco/quickbook/pkg/files"
)

func FuzzUnindent(f *testing.F) {
	f.Add("    a\n  b\n")
	f.Add("\t x\n  \ty\n")
	f.Add("\n\n")

	f.Fuzz(func(t *testing.T, input string) {
		once := files.Unindent(input)
		if twice := files.Unindent(once); twice != once {
			t.Fatalf("unindent not idempotent: %q -> %q -> %q", input, once, twice)
		}

		original := files.New("", input, 0)
		builder := files.NewMappedFileBuilder()
		builder.Start(original)
		builder.UnindentAndAdd(0, len(input))
		mapped := builder.Release()
		for offset := 0; offset <= len(mapped.Source); offset++ {
			if pos := mapped.PositionOf(offset); !pos.IsValid() {
				t.Fatalf("invalid position %v for offset %d", pos, offset)
			}
		}
	})
}

func FuzzDecode(f *testing.F) {
	f.Add([]byte("a\r\nb"))
	f.Add([]byte{0xFF, 0xFE, 'a', 0})

	f.Fuzz(func(t *testing.T, raw []byte) {
		text, err := files.Decode(raw)
		if err != nil {
			return
		}
		for i := 0; i < len(text); i++ {
			if text[i] == '\r' {
				t.Fatalf("carriage return survived decoding at %d", i)
			}
		}
	})
}
