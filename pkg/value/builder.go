package value

// frame is one level of list under construction. Nodes of a frame are not
// shared until the frame is finished, so they may be appended in place.
type frame struct {
	tag    Tag
	head   *listNode
	back   **listNode
	parent *frame

	// isList is false for frames opened by Save.
	isList bool
}

func newFrame(tag Tag, parent *frame, isList bool) *frame {
	f := &frame{tag: tag, head: listEnd, parent: parent, isList: isList}
	f.back = &f.head
	return f
}

func (f *frame) insert(v Value) {
	n := &listNode{value: v, next: listEnd}
	*f.back = n
	f.back = &n.next
}

func (f *frame) release() Value {
	v := Value{&node{kind: KindList, tag: f.tag, list: f.head}}
	f.head = listEnd
	f.back = &f.head
	return v
}

// Builder collects values while a grammar production runs. Nested lists
// mirror the nesting of productions.
type Builder struct {
	current *frame
}

// NewBuilder returns a builder with an empty root list.
func NewBuilder() *Builder {
	return &Builder{current: newFrame(DefaultTag, nil, true)}
}

// Save opens an isolated frame; values inserted until the matching Restore
// are kept apart from the enclosing list.
func (b *Builder) Save() {
	b.current = newFrame(DefaultTag, b.current, false)
}

// Restore discards the frame opened by the matching Save.
func (b *Builder) Restore() {
	for b.current.isList && b.current.parent != nil {
		b.current = b.current.parent
	}
	if b.current.parent != nil {
		b.current = b.current.parent
	}
}

// StartList opens a nested list with the given tag.
func (b *Builder) StartList(tag Tag) {
	b.current = newFrame(tag, b.current, true)
}

// FinishList closes the innermost list and inserts it into its parent.
func (b *Builder) FinishList() {
	if b.current.parent == nil {
		return
	}
	list := b.current.release()
	b.current = b.current.parent
	b.current.insert(list)
}

// ClearList drops everything inserted into the innermost list.
func (b *Builder) ClearList() {
	b.current.head = listEnd
	b.current.back = &b.current.head
}

// SortList stably sorts the innermost list by tag.
func (b *Builder) SortList() {
	b.current.head = mergeSort(b.current.head)
	b.current.back = &b.current.head
	for *b.current.back != listEnd {
		b.current.back = &(*b.current.back).next
	}
}

// Insert appends a value to the innermost list.
func (b *Builder) Insert(v Value) {
	b.current.insert(v)
}

// Release returns the innermost list and empties it.
func (b *Builder) Release() Value {
	return b.current.release()
}

// Empty reports whether the innermost list has no elements.
func (b *Builder) Empty() bool {
	return b.current.head == listEnd
}
