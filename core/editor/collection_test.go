package editor

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

type note struct {
	ID    string
	Title string
	Order int
}

func (n *note) ItemKey() string     { return n.ID }
func (n *note) SetPosition(pos int) { n.Order = pos }

func cloneNote(n *note) *note {
	dup := *n
	dup.ID = uuid.NewString()
	dup.Title += " (Copy)"
	return &dup
}

func newNotes(n int) []*note {
	notes := make([]*note, 0, n)
	for i := 0; i < n; i++ {
		notes = append(notes, &note{ID: fmt.Sprintf("n%d", i+1), Title: fmt.Sprintf("Note %d", i+1)})
	}
	return notes
}

func checkOrders(t *testing.T, c *Collection[*note]) {
	t.Helper()
	for i, it := range c.Items() {
		if it.Order != i+1 {
			t.Fatalf("order not contiguous: items[%d].Order = %d", i, it.Order)
		}
	}
}

func Test_Collection_orderStaysContiguous(t *testing.T) {
	c := NewCollection(cloneNote, newNotes(3)...)
	checkOrders(t, c)

	mutations := []struct {
		name string
		op   func()
	}{
		{"add", func() { c.Add(&note{ID: "n4", Title: "Note 4"}) }},
		{"remove middle", func() { c.Remove("n2") }},
		{"move down", func() { c.MoveDown(0) }},
		{"move up", func() { c.MoveUp(2) }},
		{"duplicate", func() { c.Duplicate("n1") }},
		{"remove head", func() { c.Remove("n1") }},
		{"update", func() { c.Update("n3", &note{ID: "n3", Title: "Renamed"}) }},
	}
	for _, m := range mutations {
		m.op()
		checkOrders(t, c)
	}
}

func Test_Collection_moveBoundaryNoop(t *testing.T) {
	c := NewCollection(cloneNote, newNotes(3)...)
	before := fmt.Sprintf("%+v", c.Items())

	c.MoveUp(0)
	c.MoveDown(c.Len() - 1)
	c.MoveUp(-1)
	c.MoveDown(c.Len())

	if after := fmt.Sprintf("%+v", c.Items()); after != before {
		t.Errorf("boundary move mutated the list:\nbefore: %s\nafter:  %s", before, after)
	}
}

func Test_Collection_duplicate(t *testing.T) {
	c := NewCollection(cloneNote, newNotes(2)...)

	dup, ok := c.Duplicate("n1")
	if !ok {
		t.Fatal("Duplicate(n1) did not find the item")
	}
	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}
	if dup.Title != "Note 1 (Copy)" {
		t.Errorf("title = %q, want %q", dup.Title, "Note 1 (Copy)")
	}
	for _, it := range c.Items()[:2] {
		if it.ID == dup.ID {
			t.Errorf("duplicate reused key %q", dup.ID)
		}
	}
	if dup.Order != 3 {
		t.Errorf("duplicate order = %d, want 3", dup.Order)
	}

	if _, ok := c.Duplicate("nope"); ok {
		t.Error("Duplicate(nope) reported success")
	}
}

func Test_Collection_updateUnknownKeyIsNoop(t *testing.T) {
	c := NewCollection(cloneNote, newNotes(2)...)
	before := c.Items()

	if ok := c.Update("ghost", &note{ID: "ghost", Title: "Boo"}); ok {
		t.Error("Update(ghost) reported success")
	}
	if !reflect.DeepEqual(before, c.Items()) {
		t.Error("Update(ghost) mutated the list")
	}
}

func Test_Collection_remove(t *testing.T) {
	c := NewCollection(cloneNote, newNotes(3)...)

	if ok := c.Remove("n2"); !ok {
		t.Fatal("Remove(n2) did not find the item")
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("n2"); ok {
		t.Error("n2 still present after Remove")
	}
	checkOrders(t, c)
}
