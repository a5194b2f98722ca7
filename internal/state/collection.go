package state

import "errors"

// ErrNotFound is returned by Collection when no record carries the id.
var ErrNotFound = errors.New("state: record not found")

// Record is anything a Collection can hold.
type Record interface {
	GetID() int64
}

// Collection is an ordered list of records keyed by id. Insertion order is
// preserved and is the order persisted.
type Collection[T Record] struct {
	items []T
}

func NewCollection[T Record](items []T) *Collection[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	return &Collection[T]{items: cp}
}

func (c *Collection[T]) Add(item T) {
	c.items = append(c.items, item)
}

// Update replaces the record with item's id.
func (c *Collection[T]) Update(item T) error {
	for i := range c.items {
		if c.items[i].GetID() == item.GetID() {
			c.items[i] = item
			return nil
		}
	}
	return ErrNotFound
}

func (c *Collection[T]) Remove(id int64) error {
	for i := range c.items {
		if c.items[i].GetID() == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (c *Collection[T]) FindByID(id int64) (T, bool) {
	for _, it := range c.items {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Filter(pred func(T) bool) []T {
	out := make([]T, 0)
	for _, it := range c.items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// All returns a copy of every record in order.
func (c *Collection[T]) All() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Len() int {
	return len(c.items)
}

// snapshot is the slice persisted under the collection's key. It is never
// nil so an empty collection is stored as [].
func (c *Collection[T]) snapshot() []T {
	return c.All()
}
