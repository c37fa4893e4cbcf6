package cms

import (
	"time"

	"github.com/google/uuid"

	"github.com/tailcraft/avialearn/core/editor"
)

// Upload is a file staged for upload at save time. It lives directly on the
// owning record so it cannot drift out of sync with the collection.
type Upload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// ContentSection is one block of the About-Us page. ID is user-supplied
// (a slug) and doubles as the collection key.
type ContentSection struct {
	ID       string `json:"id" validate:"required,slug"`
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content"` // sanitized HTML
	Image    string `json:"image"`
	ImageAlt string `json:"image_alt"`
	IsActive bool   `json:"is_active"`
	Order    int    `json:"order"`
}

var _ editor.Item = (*ContentSection)(nil)

func (s *ContentSection) ItemKey() string     { return s.ID }
func (s *ContentSection) SetPosition(pos int) { s.Order = pos }

func DefaultSection() *ContentSection {
	return &ContentSection{IsActive: true}
}

// CloneSection copies s with a derived id and a "(Copy)" title suffix.
func CloneSection(s *ContentSection) *ContentSection {
	dup := *s
	dup.ID = s.ID + "-copy-" + uuid.NewString()[:8]
	dup.Title = s.Title + " (Copy)"
	return &dup
}

// TeamMember is one entry of the About-Us team list. PendingImage holds a
// staged upload processed when the page is saved.
type TeamMember struct {
	ID             string   `json:"id" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	Position       string   `json:"position" validate:"required"`
	Image          string   `json:"image"`
	ImageAlt       string   `json:"image_alt"`
	Bio            string   `json:"bio"`
	Certifications []string `json:"certifications"`
	IsActive       bool     `json:"is_active"`
	Order          int      `json:"order"`
	PendingImage   *Upload  `json:"pending_image,omitempty"`
}

var _ editor.Item = (*TeamMember)(nil)

func (m *TeamMember) ItemKey() string     { return m.ID }
func (m *TeamMember) SetPosition(pos int) { m.Order = pos }

func DefaultMember() *TeamMember {
	return &TeamMember{ID: uuid.NewString(), IsActive: true}
}

// CloneMember copies m with a fresh id; staged uploads are not carried over.
func CloneMember(m *TeamMember) *TeamMember {
	dup := *m
	dup.ID = uuid.NewString()
	dup.Name = m.Name + " (Copy)"
	dup.PendingImage = nil
	return &dup
}

// AboutPage is the whole About-Us document; saves replace it wholesale.
type AboutPage struct {
	Title     string            `json:"title"`
	Intro     string            `json:"intro"`
	Sections  []*ContentSection `json:"sections"`
	Team      []*TeamMember     `json:"team"`
	UpdatedAt time.Time         `json:"updated_at"` // UTC
}

// NewSectionCollection returns the ordered section list editor.
func NewSectionCollection(sections ...*ContentSection) *editor.Collection[*ContentSection] {
	return editor.NewCollection(CloneSection, sections...)
}

// NewMemberCollection returns the ordered team list editor.
func NewMemberCollection(members ...*TeamMember) *editor.Collection[*TeamMember] {
	return editor.NewCollection(CloneMember, members...)
}
