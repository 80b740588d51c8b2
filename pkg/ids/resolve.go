package ids

import (
	"html"
	"sort"
	"strconv"
	"strings"
)

type idData struct {
	category Category
	used     bool
	gen      *generation
}

type generation struct {
	parent string
	base   string
	count  int
}

// Replace resolves every placeholder referenced from markup and rewrites
// the id, linkend, linkends and arearefs attributes with the final ids.
func (m *Manager) Replace(markup string) string {
	for _, p := range m.placeholders {
		p.order = -1
		p.resolved = ""
		p.final = ""
		p.data = nil
	}

	order := 0
	walkIDAttributes(markup, func(value string) {
		forEachToken(value, func(token string) {
			p := m.Lookup(token)
			for ; p != nil && p.order < 0; p = p.Parent {
				p.order = order
				order++
			}
		})
	})

	var used []*Placeholder
	for _, p := range m.placeholders {
		if p.order >= 0 {
			used = append(used, p)
		}
	}
	sort.SliceStable(used, func(i, j int) bool {
		a, b := used[i], used[j]
		if a.NumDots != b.NumDots {
			return a.NumDots < b.NumDots
		}
		if a.Category != b.Category {
			return a.Category > b.Category
		}
		return a.order < b.order
	})

	data := make(map[string]*idData)
	for start := 0; start < len(used); {
		end := start
		for end < len(used) && used[end].NumDots == used[start].NumDots {
			end++
		}
		batch := used[start:end]
		for _, p := range batch {
			p.resolved = p.ID
			if p.Parent != nil {
				p.resolved = p.Parent.final + "." + p.ID
			}
			d := data[p.resolved]
			if d == nil {
				d = &idData{category: p.Category}
				data[p.resolved] = d
			} else if p.Category > d.category {
				d.category = p.Category
			}
			p.data = d
		}
		for _, p := range batch {
			generate(p, data)
		}
		start = end
	}

	return rewriteIDAttributes(markup, func(value string) string {
		return m.replaceValue(value)
	})
}

func generate(p *Placeholder, data map[string]*idData) {
	d := p.data
	parent, child := splitLast(p.resolved)
	verbatim := p.Category != CategoryNumbered &&
		p.Category == d.category &&
		!d.used &&
		child != "" &&
		(p.Category.IsExplicit() || len(child) <= MaxLength)
	if verbatim {
		d.used = true
		p.final = p.resolved
		return
	}

	if d.gen == nil {
		d.gen = &generation{parent: parent, base: normalize(child, MaxLength)}
	}
	g := d.gen
	for {
		suffix := "_" + strconv.Itoa(g.count)
		g.count++
		base := g.base
		if len(base)+len(suffix) > MaxLength {
			base = strings.TrimRight(truncate(base, MaxLength-len(suffix)), "_")
		}
		candidate := base + suffix
		if g.parent != "" {
			candidate = g.parent + "." + candidate
		}
		if _, taken := data[candidate]; taken {
			continue
		}
		data[candidate] = &idData{category: p.Category, used: true}
		p.final = candidate
		return
	}
}

func splitLast(id string) (string, string) {
	if i := strings.LastIndexByte(id, '.'); i >= 0 {
		return id[:i], id[i+1:]
	}
	return "", id
}

// replaceValue substitutes placeholder tokens and unescapes "$$". Final
// ids are attribute encoded; the rest of the value already is.
func (m *Manager) replaceValue(value string) string {
	if !strings.Contains(value, "$") {
		return value
	}
	var b strings.Builder
	for i := 0; i < len(value); {
		c := value[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(value) && value[i+1] == '$' {
			b.WriteByte('$')
			i += 2
			continue
		}
		j := i + 1
		for j < len(value) && value[j] >= '0' && value[j] <= '9' {
			j++
		}
		if p := m.Lookup(value[i:j]); p != nil && j > i+1 && p.final != "" {
			b.WriteString(html.EscapeString(p.final))
		} else {
			b.WriteString(value[i:j])
		}
		i = j
	}
	return b.String()
}

// forEachToken calls fn for every placeholder token in an attribute value.
func forEachToken(value string, fn func(token string)) {
	for i := 0; i < len(value); {
		if value[i] != '$' {
			i++
			continue
		}
		if i+1 < len(value) && value[i+1] == '$' {
			i += 2
			continue
		}
		j := i + 1
		for j < len(value) && value[j] >= '0' && value[j] <= '9' {
			j++
		}
		if j > i+1 {
			fn(value[i:j])
		}
		i = j
	}
}
