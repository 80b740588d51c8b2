package value

import "fmt"

// Consumer reads a list value front to back, checking tags. The first
// failure is sticky: later calls return empty values and Err or Finish
// report it.
type Consumer struct {
	tag  Tag
	next *listNode
	err  error
}

// NewConsumer starts consuming list.
func NewConsumer(list Value) *Consumer {
	n := list.node()
	if n.kind != KindList {
		return &Consumer{next: listEnd, err: list.wrongVariant("NewConsumer")}
	}
	return &Consumer{tag: n.tag, next: n.list}
}

func matches(v Value, tag Tag) bool {
	return tag == DefaultTag || v.Tag() == tag
}

// HasMore reports whether unread values remain.
func (c *Consumer) HasMore() bool {
	return c.err == nil && c.next != listEnd
}

// IsTag reports whether the next value has the given tag.
func (c *Consumer) IsTag(tag Tag) bool {
	return c.HasMore() && matches(c.next.value, tag)
}

// Peek returns the next value without consuming it.
func (c *Consumer) Peek() Value {
	if !c.HasMore() {
		return Value{}
	}
	return c.next.value
}

// Consume reads the next value, which must have the given tag.
func (c *Consumer) Consume(tag Tag) Value {
	if c.err != nil {
		return Value{}
	}
	if c.next == listEnd {
		c.err = fmt.Errorf("list %d: want tag %d: %w", c.tag, tag, ErrMissing)
		return Value{}
	}
	v := c.next.value
	if !matches(v, tag) {
		c.err = fmt.Errorf("list %d: want tag %d, got %d: %w", c.tag, tag, v.Tag(), ErrWrongTag)
		return Value{}
	}
	c.next = c.next.next
	return v
}

// Optional reads the next value if it has the given tag and returns an
// empty value otherwise.
func (c *Consumer) Optional(tag Tag) Value {
	if !c.IsTag(tag) {
		return Value{}
	}
	return c.Consume(tag)
}

// ConsumeAll reads every consecutive value with the given tag.
func (c *Consumer) ConsumeAll(tag Tag) []Value {
	var values []Value
	for c.IsTag(tag) {
		values = append(values, c.Consume(tag))
	}
	return values
}

// Err returns the first consumption failure.
func (c *Consumer) Err() error {
	return c.err
}

// Finish checks that every value was consumed.
func (c *Consumer) Finish() error {
	if c.err != nil {
		return c.err
	}
	if c.next != listEnd {
		return fmt.Errorf("list %d: next tag %d: %w", c.tag, c.next.value.Tag(), ErrUnconsumed)
	}
	return nil
}
