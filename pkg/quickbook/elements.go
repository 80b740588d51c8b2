package quickbook

// elementClass says where an element may appear.
type elementClass int

const (
	// classSectionBlock elements only appear at the top level of a
	// section: never in lists, nested blocks or phrases.
	classSectionBlock elementClass = iota

	// classConditionalOrBlock elements are blocks that may also sit in
	// the phrase content of a conditional.
	classConditionalOrBlock

	// classNestedBlock elements are blocks allowed in nested blocks.
	classNestedBlock

	// classPhrase elements appear anywhere.
	classPhrase

	// classMaybeBlock elements are phrases that stand alone as blocks
	// when nothing else is on their paragraph.
	classMaybeBlock
)

type elementHandler func(p *parser, e *element)

type elementInfo struct {
	name       string
	class      elementClass
	minVersion int
	takesID    bool
	handler    elementHandler
}

var elementTable map[string]*elementInfo //nolint:gochecknoglobals

//nolint:gochecknoinits // The table refers to handlers that parse nested elements.
func init() {
	elementTable = make(map[string]*elementInfo)
	add := func(name string, class elementClass, minVersion int, takesID bool, h elementHandler) {
		elementTable[name] = &elementInfo{name: name, class: class, minVersion: minVersion, takesID: takesID, handler: h}
	}

	add("section", classSectionBlock, 100, true, (*parser).sectionElement)
	add("endsect", classSectionBlock, 100, false, (*parser).endsectElement)

	add("heading", classNestedBlock, 103, true, headingElement(0))
	for level := 1; level <= 6; level++ {
		add("h"+string(rune('0'+level)), classNestedBlock, 100, true, headingElement(level))
	}

	for _, name := range []string{"note", "tip", "important", "caution", "warning"} {
		add(name, classNestedBlock, 100, false, wrapBlock("<"+name+">\n", "</"+name+">\n"))
	}
	add("blurb", classNestedBlock, 100, false, wrapBlock("<sidebar role=\"blurb\">\n", "</sidebar>\n"))
	add(":", classNestedBlock, 100, false, wrapBlock("<blockquote>\n", "</blockquote>\n"))
	add("block", classNestedBlock, 106, false, wrapBlock("", ""))
	add("pre", classNestedBlock, 100, false, (*parser).preformattedElement)
	add("ordered_list", classNestedBlock, 100, false, listElement("orderedlist"))
	add("itemized_list", classNestedBlock, 100, false, listElement("itemizedlist"))
	add("table", classNestedBlock, 100, true, (*parser).tableElement)
	add("variablelist", classNestedBlock, 100, true, (*parser).variablelistElement)
	add("xinclude", classNestedBlock, 100, false, (*parser).xincludeElement)

	add("def", classConditionalOrBlock, 100, false, (*parser).defElement)
	add("template", classConditionalOrBlock, 103, false, (*parser).templateElement)
	add("include", classConditionalOrBlock, 100, true, (*parser).includeElement)
	add("import", classConditionalOrBlock, 104, false, (*parser).importElement)

	add("*", classPhrase, 100, false, simplePhrase(`<emphasis role="bold">`, "</emphasis>"))
	add("'", classPhrase, 100, false, simplePhrase("<emphasis>", "</emphasis>"))
	add("_", classPhrase, 100, false, simplePhrase(`<emphasis role="underline">`, "</emphasis>"))
	add("^", classPhrase, 100, false, simplePhrase("<literal>", "</literal>"))
	add("-", classPhrase, 100, false, simplePhrase(`<emphasis role="strikethrough">`, "</emphasis>"))
	add("\"", classPhrase, 100, false, simplePhrase("<quote>", "</quote>"))
	add("~", classPhrase, 100, false, simplePhrase("<replaceable>", "</replaceable>"))
	add("footnote", classPhrase, 100, false, (*parser).footnoteElement)
	add("link", classPhrase, 100, false, linkElement("link", "linkend"))
	add("funcref", classPhrase, 100, false, linkElement("functionname", "alt"))
	add("classref", classPhrase, 100, false, linkElement("classname", "alt"))
	add("memberref", classPhrase, 100, false, linkElement("methodname", "alt"))
	add("enumref", classPhrase, 100, false, linkElement("enumname", "alt"))
	add("macroref", classPhrase, 100, false, linkElement("macroname", "alt"))
	add("headerref", classPhrase, 100, false, linkElement("headername", "alt"))
	add("conceptref", classPhrase, 100, false, linkElement("conceptname", "alt"))
	add("globalref", classPhrase, 100, false, linkElement("globalname", "alt"))
	add("@", classPhrase, 100, false, linkElement("ulink", "url"))
	add("$", classPhrase, 100, false, (*parser).imageElement)
	add("role", classPhrase, 106, false, (*parser).roleElement)
	add("br", classPhrase, 100, false, (*parser).breakElement)
	add("?", classPhrase, 105, false, (*parser).conditionalElement)
	add("`", classPhrase, 103, false, (*parser).escapedTemplateElement)

	add("#", classMaybeBlock, 100, false, (*parser).anchorElement)
	for _, mode := range []string{"c++", "python", "teletype"} {
		add(mode, classMaybeBlock, 100, false, sourceModeElement(mode))
	}
}

func lookupElement(name string) *elementInfo {
	return elementTable[name]
}
