// Package value implements the parser's universal tree node: a small
// tagged variant that is either empty, an integer, a span of unencoded
// source, an encoded string or a persistent list of other values.
//
// Values are immutable once built. Lists are singly linked chains that
// share their tails, ending in a common sentinel, so consing and slicing
// never copy; operations that would modify a shared chain copy the
// affected prefix instead.
package value

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/yaklabco/quickbook/pkg/files"
)

// Tag identifies the grammar area a value belongs to. Consumers dispatch
// on it and lists can be sorted by it.
type Tag int

// DefaultTag marks untagged values. Consumers treat it as a wildcard.
const DefaultTag Tag = -1

// Kind is the variant of a value.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindInt
	KindSpan
	KindEncoded
	KindList
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindInt:
		return "int"
	case KindSpan:
		return "span"
	case KindEncoded:
		return "encoded"
	case KindList:
		return "list"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Sentinel errors for variant access and consumption.
var (
	// ErrWrongVariant is returned by an accessor called on the wrong kind.
	ErrWrongVariant = errors.New("wrong value variant")

	// ErrMissing is returned when a consumer reads past the end of a list.
	ErrMissing = errors.New("missing value")

	// ErrWrongTag is returned when a consumer meets an unexpected tag.
	ErrWrongTag = errors.New("unexpected value tag")

	// ErrUnconsumed is returned by Finish when values are left over.
	ErrUnconsumed = errors.New("unconsumed values")
)

type node struct {
	kind Kind
	tag  Tag

	integer int

	span    files.Span
	hasSpan bool

	encoded string

	list *listNode
}

type listNode struct {
	value Value
	next  *listNode
}

// listEnd terminates every list. It is never modified.
//
//nolint:gochecknoglobals // Shared immutable sentinel.
var listEnd = &listNode{}

//nolint:gochecknoglobals // Shared immutable empty value.
var emptyNode = &node{kind: KindEmpty, tag: DefaultTag}

// Value is an immutable, cheaply copyable handle to a node.
type Value struct {
	n *node
}

func (v Value) node() *node {
	if v.n == nil {
		return emptyNode
	}
	return v.n
}

// Empty returns an empty value with the given tag.
func Empty(tag Tag) Value {
	if tag == DefaultTag {
		return Value{}
	}
	return Value{&node{kind: KindEmpty, tag: tag}}
}

// Int returns an integer value.
func Int(i int, tag Tag) Value {
	return Value{&node{kind: KindInt, tag: tag, integer: i}}
}

// Span returns a value referencing unencoded source text.
func Span(span files.Span, tag Tag) Value {
	return Value{&node{kind: KindSpan, tag: tag, span: span, hasSpan: true}}
}

// Encoded returns a value holding already rendered markup.
func Encoded(s string, tag Tag) Value {
	return Value{&node{kind: KindEncoded, tag: tag, encoded: s}}
}

// EncodedSpan returns rendered markup that remembers the source it was
// rendered from.
func EncodedSpan(span files.Span, s string, tag Tag) Value {
	return Value{&node{kind: KindEncoded, tag: tag, encoded: s, span: span, hasSpan: true}}
}

// List returns a list value holding values in order.
func List(tag Tag, values ...Value) Value {
	head := listEnd
	for i := len(values) - 1; i >= 0; i-- {
		head = &listNode{value: values[i], next: head}
	}
	return Value{&node{kind: KindList, tag: tag, list: head}}
}

// Kind returns the variant of the value.
func (v Value) Kind() Kind { return v.node().kind }

// Tag returns the value's tag.
func (v Value) Tag() Tag { return v.node().tag }

// IsEmpty reports whether the value is the empty variant.
func (v Value) IsEmpty() bool { return v.node().kind == KindEmpty }

// IsList reports whether the value is a list.
func (v Value) IsList() bool { return v.node().kind == KindList }

// IsEncoded reports whether the value holds rendered markup.
func (v Value) IsEncoded() bool { return v.node().kind == KindEncoded }

// HasSpan reports whether the value references source text.
func (v Value) HasSpan() bool { return v.node().hasSpan }

// Check returns true if the value is non-empty.
func (v Value) Check() bool { return !v.IsEmpty() }

func (v Value) wrongVariant(op string) error {
	return fmt.Errorf("%s on %s value: %w", op, v.Kind(), ErrWrongVariant)
}

// AsInt returns the integer of an int value.
func (v Value) AsInt() (int, error) {
	n := v.node()
	if n.kind != KindInt {
		return 0, v.wrongVariant("AsInt")
	}
	return n.integer, nil
}

// SourceSpan returns the source span of a span value or of an encoded
// value rendered from source.
func (v Value) SourceSpan() (files.Span, error) {
	n := v.node()
	if !n.hasSpan {
		return files.Span{}, v.wrongVariant("SourceSpan")
	}
	return n.span, nil
}

// Text returns the raw source text of a span value.
func (v Value) Text() (string, error) {
	n := v.node()
	if n.kind != KindSpan {
		return "", v.wrongVariant("Text")
	}
	return n.span.Text(), nil
}

// EncodedString returns the markup of an encoded value.
func (v Value) EncodedString() (string, error) {
	n := v.node()
	if n.kind != KindEncoded {
		return "", v.wrongVariant("EncodedString")
	}
	return n.encoded, nil
}

// String returns a display form: source text for spans, markup for
// encoded values and the number for ints. Lists and empty values print as
// empty strings.
func (v Value) String() string {
	n := v.node()
	switch n.kind {
	case KindInt:
		return strconv.Itoa(n.integer)
	case KindSpan:
		return n.span.Text()
	case KindEncoded:
		return n.encoded
	default:
		return ""
	}
}

// Position returns the source position of the value, if it has one.
func (v Value) Position() files.Position {
	n := v.node()
	if !n.hasSpan {
		return files.Position{}
	}
	return n.span.Position()
}

// Len returns the number of elements of a list value, zero otherwise.
func (v Value) Len() int {
	n := v.node()
	if n.kind != KindList {
		return 0
	}
	count := 0
	for it := n.list; it != listEnd; it = it.next {
		count++
	}
	return count
}

// Values returns the elements of a list value.
func (v Value) Values() []Value {
	n := v.node()
	if n.kind != KindList {
		return nil
	}
	var values []Value
	for it := n.list; it != listEnd; it = it.next {
		values = append(values, it.value)
	}
	return values
}

// Append returns a new list with value after list's elements. The
// original chain is shared by other holders, so its nodes are copied.
func Append(list Value, value Value) (Value, error) {
	n := list.node()
	if n.kind != KindList {
		return Value{}, list.wrongVariant("Append")
	}
	return List(n.tag, append(list.Values(), value)...), nil
}

// SortByTag returns a copy of list stably sorted by element tag.
func SortByTag(list Value) (Value, error) {
	n := list.node()
	if n.kind != KindList {
		return Value{}, list.wrongVariant("SortByTag")
	}
	return Value{&node{kind: KindList, tag: n.tag, list: mergeSort(cloneChain(n.list))}}, nil
}

func cloneChain(head *listNode) *listNode {
	result := listEnd
	tail := &result
	for it := head; it != listEnd; it = it.next {
		copied := &listNode{value: it.value, next: listEnd}
		*tail = copied
		tail = &copied.next
	}
	return result
}

// mergeSort sorts an unshared chain in place. Equal tags keep their order.
func mergeSort(head *listNode) *listNode {
	if head == listEnd || head.next == listEnd {
		return head
	}

	slow, fast := head, head.next
	for fast != listEnd && fast.next != listEnd {
		slow = slow.next
		fast = fast.next.next
	}
	second := slow.next
	slow.next = listEnd

	left := mergeSort(head)
	right := mergeSort(second)

	result := listEnd
	tail := &result
	for left != listEnd && right != listEnd {
		if right.value.Tag() < left.value.Tag() {
			*tail = right
			right = right.next
		} else {
			*tail = left
			left = left.next
		}
		tail = &(*tail).next
	}
	if left != listEnd {
		*tail = left
	} else {
		*tail = right
	}
	return result
}
