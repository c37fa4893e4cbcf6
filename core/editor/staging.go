package editor

// Staging holds exactly one in-progress entity bound to form inputs, distinct
// from the committed collection. Commit validates and then inserts or replaces
// depending on whether the slot was loaded for edit; a failed validation leaves
// both the slot and the collection untouched.
type Staging[T Item] struct {
	draft    T
	editing  bool
	defaults func() T
	validate func(T) error
}

func NewStaging[T Item](defaults func() T, validate func(T) error) *Staging[T] {
	s := &Staging[T]{defaults: defaults, validate: validate}
	s.LoadForCreate()
	return s
}

func (s *Staging[T]) Draft() T      { return s.draft }
func (s *Staging[T]) SetDraft(d T)  { s.draft = d }
func (s *Staging[T]) Editing() bool { return s.editing }

// LoadForEdit copies an existing entity into the slot; Commit will then
// replace it in the collection instead of appending.
func (s *Staging[T]) LoadForEdit(entity T) {
	s.draft = entity
	s.editing = true
}

// LoadForCreate resets the slot to the type default and clears editing mode.
func (s *Staging[T]) LoadForCreate() {
	s.draft = s.defaults()
	s.editing = false
}

// Commit validates the draft and merges it into c, then resets the slot.
// On validation failure the slot and collection are left untouched.
func (s *Staging[T]) Commit(c *Collection[T]) error {
	if s.validate != nil {
		if err := s.validate(s.draft); err != nil {
			return err
		}
	}
	if s.editing {
		c.Update(s.draft.ItemKey(), s.draft)
	} else {
		c.Add(s.draft)
	}
	s.LoadForCreate()
	return nil
}

// Discard drops the draft without committing.
func (s *Staging[T]) Discard() {
	s.LoadForCreate()
}
