package ids

import (
	"strconv"
	"strings"
)

// Placeholder is an id whose final value is decided after parsing.
type Placeholder struct {
	Index    int
	ID       string
	Category Category
	Parent   *Placeholder

	// NumDots counts the dots of the fully qualified id; it orders the
	// resolution batches.
	NumDots int

	order    int
	resolved string
	final    string
	data     *idData
}

// Token returns the string embedded in markup for this placeholder.
func (p *Placeholder) Token() string {
	return "$" + strconv.Itoa(p.Index)
}

// Final returns the resolved id; empty before Replace has run.
func (p *Placeholder) Final() string {
	return p.final
}

type section struct {
	placeholder *Placeholder
	localID     string
}

type fileContext struct {
	baseLevel int
	doc       *Placeholder
}

// Manager hands out placeholders for one document and resolves them.
type Manager struct {
	placeholders []*Placeholder
	sections     []section
	files        []fileContext
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) parent() *Placeholder {
	if n := len(m.sections); n > 0 {
		return m.sections[n-1].placeholder
	}
	if n := len(m.files); n > 0 {
		return m.files[n-1].doc
	}
	return nil
}

func (m *Manager) add(id string, category Category, parent *Placeholder) *Placeholder {
	p := &Placeholder{
		Index:    len(m.placeholders),
		ID:       id,
		Category: category,
		Parent:   parent,
		NumDots:  strings.Count(id, "."),
		order:    -1,
	}
	if parent != nil {
		p.NumDots += parent.NumDots + 1
	}
	m.placeholders = append(m.placeholders, p)
	return p
}

// BeginFile enters a source file. When docID is non-empty the file is a
// document with its own id, which qualifies everything inside it; the
// returned token is that document's id.
func (m *Manager) BeginFile(docID string, category Category) string {
	ctx := fileContext{baseLevel: len(m.sections)}
	token := ""
	if docID != "" {
		ctx.doc = m.add(docID, category, m.parent())
		token = ctx.doc.Token()
	}
	m.files = append(m.files, ctx)
	return token
}

// EndFile leaves the current file. Sections the file left open must have
// been closed by the caller.
func (m *Manager) EndFile() {
	if n := len(m.files); n > 0 {
		m.files = m.files[:n-1]
	}
}

// FileSectionLevel returns how many sections the current file has open.
func (m *Manager) FileSectionLevel() int {
	base := 0
	if n := len(m.files); n > 0 {
		base = m.files[n-1].baseLevel
	}
	return len(m.sections) - base
}

// BeginSection opens a section and returns its id token.
func (m *Manager) BeginSection(id string, category Category) string {
	p := m.add(id, category, m.parent())
	m.sections = append(m.sections, section{placeholder: p, localID: id})
	return p.Token()
}

// EndSection closes the innermost section. It returns false when no
// section is open in the current file.
func (m *Manager) EndSection() bool {
	if m.FileSectionLevel() <= 0 {
		return false
	}
	m.sections = m.sections[:len(m.sections)-1]
	return true
}

// SectionLevel returns the total section nesting depth.
func (m *Manager) SectionLevel() int {
	return len(m.sections)
}

// AddID registers an id qualified by the current section or document.
func (m *Manager) AddID(id string, category Category) string {
	return m.add(id, category, m.parent()).Token()
}

// AddAnchor registers an unqualified id, used verbatim when free.
func (m *Manager) AddAnchor(id string, category Category) string {
	return m.add(id, category, nil).Token()
}

// OldStyleID registers an id built the way pre 1.5 documents did: the
// unresolved ids of the enclosing document and sections joined by dots,
// with no placeholder hierarchy.
func (m *Manager) OldStyleID(id string, category Category) string {
	var parts []string
	for _, f := range m.files {
		if f.doc != nil {
			parts = []string{f.doc.ID}
		}
	}
	for _, s := range m.sections {
		parts = append(parts, s.localID)
	}
	parts = append(parts, id)
	return m.add(strings.Join(parts, "."), category, nil).Token()
}

// Placeholders returns every placeholder in creation order.
func (m *Manager) Placeholders() []*Placeholder {
	return m.placeholders
}

// Lookup returns the placeholder for a token, or nil.
func (m *Manager) Lookup(token string) *Placeholder {
	if !strings.HasPrefix(token, "$") {
		return nil
	}
	index, err := strconv.Atoi(token[1:])
	if err != nil || index < 0 || index >= len(m.placeholders) {
		return nil
	}
	return m.placeholders[index]
}

// Escape makes an author supplied value safe to place in an attribute
// that Replace rewrites.
func Escape(id string) string {
	return strings.ReplaceAll(id, "$", "$$")
}
