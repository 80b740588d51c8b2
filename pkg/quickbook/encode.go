package quickbook

import "strings"

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")                //nolint:gochecknoglobals
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;") //nolint:gochecknoglobals
)

func encodeText(s string) string {
	return textEscaper.Replace(s)
}

func encodeAttr(s string) string {
	return attrEscaper.Replace(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isBlankChar(c byte) bool {
	return c == ' ' || c == '\t'
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isIdentChar(c byte) bool {
	return isAlnum(c) || c == '_'
}
