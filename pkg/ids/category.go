// Package ids assigns element identifiers in two passes. While the
// document is parsed every id-worthy element gets a placeholder token
// ("$N") instead of an id. Once the whole markup exists, Replace decides
// the final, duplicate free ids and substitutes them.
package ids

// Category orders placeholders by how strongly they claim their id.
// Higher categories win collisions.
type Category int

const (
	CategoryNumbered Category = iota
	CategoryGenerated
	CategoryGeneratedHeading
	CategoryGeneratedSection
	CategoryGeneratedDoc
	CategoryExplicitID
	CategoryExplicitSectionID
	CategoryExplicitAnchorID
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryNumbered:
		return "numbered"
	case CategoryGenerated:
		return "generated"
	case CategoryGeneratedHeading:
		return "generated-heading"
	case CategoryGeneratedSection:
		return "generated-section"
	case CategoryGeneratedDoc:
		return "generated-doc"
	case CategoryExplicitID:
		return "explicit-id"
	case CategoryExplicitSectionID:
		return "explicit-section-id"
	case CategoryExplicitAnchorID:
		return "explicit-anchor-id"
	default:
		return "unknown"
	}
}

// IsExplicit reports whether the id was written by the author.
func (c Category) IsExplicit() bool {
	return c >= CategoryExplicitID
}
