package nav

import (
	"time"

	"github.com/google/uuid"

	"github.com/tailcraft/avialearn/core/editor"
)

// MenuLink is one entry inside a submenu column.
type MenuLink struct {
	Key   string `json:"key"`
	Title string `json:"title" validate:"required"`
	Href  string `json:"href" validate:"required"`
	Order int    `json:"order"`
}

var _ editor.Item = (*MenuLink)(nil)

func (l *MenuLink) ItemKey() string     { return l.Key }
func (l *MenuLink) SetPosition(pos int) { l.Order = pos }

func CloneLink(l *MenuLink) *MenuLink {
	dup := *l
	dup.Key = uuid.NewString()
	dup.Title = l.Title + " (Copy)"
	return &dup
}

// Submenu is one dropdown column of a menu item.
type Submenu struct {
	Key   string      `json:"key"`
	Title string      `json:"title" validate:"required"`
	Links []*MenuLink `json:"links"`
	Order int         `json:"order"`
}

var _ editor.Item = (*Submenu)(nil)

func (s *Submenu) ItemKey() string     { return s.Key }
func (s *Submenu) SetPosition(pos int) { s.Order = pos }

func CloneSubmenu(s *Submenu) *Submenu {
	dup := *s
	dup.Key = uuid.NewString()
	dup.Title = s.Title + " (Copy)"
	dup.Links = make([]*MenuLink, 0, len(s.Links))
	for _, l := range s.Links {
		dup.Links = append(dup.Links, CloneLink(l))
	}
	return &dup
}

// Featured is the optional highlight card of a dropdown.
type Featured struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Href        string `json:"href"`
	Badge       string `json:"badge"`
}

// MenuItem is one top-level navigation entry. Key is generated and immutable;
// Title is a mutable display field only and is never used for lookups.
type MenuItem struct {
	Key         string     `json:"key"`
	Title       string     `json:"title" validate:"required"`
	Href        string     `json:"href"` // required only when the item has no dropdown
	HasDropdown bool       `json:"has_dropdown"`
	Icon        string     `json:"icon"`
	Description string     `json:"description"`
	Featured    *Featured  `json:"featured,omitempty"`
	Submenus    []*Submenu `json:"submenus"`
	Order       int        `json:"order"`
}

var _ editor.Item = (*MenuItem)(nil)

func (it *MenuItem) ItemKey() string     { return it.Key }
func (it *MenuItem) SetPosition(pos int) { it.Order = pos }

func DefaultItem() *MenuItem {
	return &MenuItem{Key: uuid.NewString()}
}

func CloneItem(it *MenuItem) *MenuItem {
	dup := *it
	dup.Key = uuid.NewString()
	dup.Title = it.Title + " (Copy)"
	dup.Submenus = make([]*Submenu, 0, len(it.Submenus))
	for _, s := range it.Submenus {
		dup.Submenus = append(dup.Submenus, CloneSubmenu(s))
	}
	if it.Featured != nil {
		feat := *it.Featured
		dup.Featured = &feat
	}
	return &dup
}

// Menu is the whole site navigation document; saves replace it wholesale.
type Menu struct {
	Items     []*MenuItem `json:"items"`
	UpdatedAt time.Time   `json:"updated_at"` // UTC
}

// NewItemCollection returns the ordered menu-item editor.
func NewItemCollection(items ...*MenuItem) *editor.Collection[*MenuItem] {
	return editor.NewCollection(CloneItem, items...)
}

// NewLinkCollection returns the ordered link editor for one submenu.
func NewLinkCollection(links ...*MenuLink) *editor.Collection[*MenuLink] {
	return editor.NewCollection(CloneLink, links...)
}
