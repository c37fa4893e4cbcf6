package editor

import (
	"testing"

	"github.com/tailcraft/avialearn/core"
)

func defaultNote() *note { return &note{} }

func validateNote(n *note) error {
	if n.ID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "this field is required"})
	}
	if n.Title == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "title", Error: "this field is required"})
	}
	return nil
}

func Test_Staging_commitRoundTrip(t *testing.T) {
	c := NewCollection(cloneNote)
	s := NewStaging(defaultNote, validateNote)

	s.SetDraft(&note{ID: "n1", Title: "Preflight checks"})
	if err := s.Commit(c); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	if it, ok := c.Get("n1"); !ok || it.Title != "Preflight checks" {
		t.Errorf("committed item not found: %+v", it)
	}
	if got := s.Draft(); *got != *defaultNote() {
		t.Errorf("slot not reset after commit: %+v", got)
	}
	if s.Editing() {
		t.Error("editing flag still set after commit")
	}
}

func Test_Staging_validationFailureIsNonDestructive(t *testing.T) {
	c := NewCollection(cloneNote, newNotes(1)...)
	s := NewStaging(defaultNote, validateNote)

	draft := &note{ID: "n9"} // missing title
	s.SetDraft(draft)
	err := s.Commit(c)
	if err == nil {
		t.Fatal("Commit() accepted a draft with an empty title")
	}
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("err = %T, want *core.ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "title" {
		t.Errorf("fields = %+v, want one error on title", vErr.Fields)
	}

	if c.Len() != 1 {
		t.Errorf("collection mutated on failed commit: len = %d", c.Len())
	}
	if s.Draft() != draft {
		t.Error("slot was reset on failed commit")
	}
}

func Test_Staging_editMode(t *testing.T) {
	orig := &note{ID: "n1", Title: "Old"}
	c := NewCollection(cloneNote, orig)
	s := NewStaging(defaultNote, validateNote)

	s.LoadForEdit(&note{ID: "n1", Title: "New"})
	if !s.Editing() {
		t.Fatal("editing flag not set by LoadForEdit")
	}
	if err := s.Commit(c); err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	if c.Len() != 1 {
		t.Fatalf("edit commit appended instead of replacing: len = %d", c.Len())
	}
	if it, _ := c.Get("n1"); it.Title != "New" {
		t.Errorf("title = %q, want %q", it.Title, "New")
	}
}

func Test_Staging_discard(t *testing.T) {
	s := NewStaging(defaultNote, validateNote)
	s.LoadForEdit(&note{ID: "n1", Title: "Edited"})

	s.Discard()
	if s.Editing() {
		t.Error("editing flag still set after discard")
	}
	if got := s.Draft(); *got != *defaultNote() {
		t.Errorf("slot not reset after discard: %+v", got)
	}
}
