// Package editor implements the in-memory ordered-collection editing model shared
// by the quiz builder, the about-page editors and the navigation menu editor: an
// ordered list of keyed entities with a dense 1-based position field, plus a
// single-slot staging area for the record currently bound to a form.
package editor

// Item is any entity that can live in a Collection. ItemKey returns the stable
// identity used for update/remove lookups; SetPosition receives the 1-based
// position after every structural mutation.
type Item interface {
	ItemKey() string
	SetPosition(pos int)
}

// CloneFunc produces a copy of an item with a fresh key (and, where applicable,
// a "(Copy)" suffix on its display label).
type CloneFunc[T Item] func(T) T

type Collection[T Item] struct {
	items []T
	clone CloneFunc[T]
}

func NewCollection[T Item](clone CloneFunc[T], items ...T) *Collection[T] {
	c := &Collection[T]{clone: clone, items: items}
	c.renumber()
	return c
}

func (c *Collection[T]) Len() int { return len(c.items) }

// Items returns the current entities in order. The returned slice is a copy;
// the entities themselves are shared.
func (c *Collection[T]) Items() []T {
	items := make([]T, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Collection[T]) Get(key string) (T, bool) {
	for _, it := range c.items {
		if it.ItemKey() == key {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Add appends an item. Key validity (non-empty, unique) is the caller's job;
// the collection assumes it is already checked.
func (c *Collection[T]) Add(item T) {
	c.items = append(c.items, item)
	c.renumber()
}

// Update replaces the item whose key matches; it is a silent no-op when no
// item matches. Reports whether a replacement happened.
func (c *Collection[T]) Update(key string, item T) bool {
	for i, it := range c.items {
		if it.ItemKey() == key {
			c.items[i] = item
			c.renumber()
			return true
		}
	}
	return false
}

// Remove deletes the item whose key matches and renumbers the rest.
func (c *Collection[T]) Remove(key string) bool {
	for i, it := range c.items {
		if it.ItemKey() == key {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.renumber()
			return true
		}
	}
	return false
}

// MoveUp swaps the item at i with its predecessor; no-op at index 0.
func (c *Collection[T]) MoveUp(i int) {
	if i <= 0 || i >= len(c.items) {
		return
	}
	c.items[i-1], c.items[i] = c.items[i], c.items[i-1]
	c.renumber()
}

// MoveDown swaps the item at i with its successor; no-op at the last index.
func (c *Collection[T]) MoveDown(i int) {
	if i < 0 || i >= len(c.items)-1 {
		return
	}
	c.items[i], c.items[i+1] = c.items[i+1], c.items[i]
	c.renumber()
}

// Duplicate clones the item whose key matches (via the collection's CloneFunc)
// and appends the clone.
func (c *Collection[T]) Duplicate(key string) (T, bool) {
	var zero T
	if c.clone == nil {
		return zero, false
	}
	it, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	dup := c.clone(it)
	c.Add(dup)
	return dup, true
}

// renumber keeps positions dense, 1-based and matching array order.
func (c *Collection[T]) renumber() {
	for i, it := range c.items {
		it.SetPosition(i + 1)
	}
}
