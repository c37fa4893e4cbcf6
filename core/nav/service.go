package nav

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tailcraft/avialearn/core"
)

var (
	// errors
	ErrNotFound = errors.New("menu not found")
)

type (
	Repository interface {
		GetMenu() (Menu, error)
		// SaveMenu replaces the stored document wholesale.
		SaveMenu(menu Menu) (Menu, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetMenu() (Menu, error) {
	return svc.repo.GetMenu()
}

// SaveMenu validates and persists the whole navigation tree. Missing keys are
// minted (items created before the key redesign carry none), and every level
// is renumbered dense/1-based.
func (svc *Service) SaveMenu(menu Menu) (Menu, error) {
	for i, it := range menu.Items {
		if it.Key == "" {
			it.Key = uuid.NewString()
		}
		it.Title = core.CleanString(it.Title)
		if it.Title == "" {
			return Menu{}, core.NewValidationError(errors.New("invalid menu"),
				core.FieldError{Field: fmt.Sprintf("items[%d].title", i), Error: "this field is required"})
		}
		if !it.HasDropdown && core.CleanString(it.Href) == "" {
			return Menu{}, core.NewValidationError(errors.New("invalid menu"),
				core.FieldError{Field: fmt.Sprintf("items[%d].href", i), Error: "required when the item has no dropdown"})
		}

		for j, sub := range it.Submenus {
			if sub.Key == "" {
				sub.Key = uuid.NewString()
			}
			sub.Title = core.CleanString(sub.Title)
			if sub.Title == "" {
				return Menu{}, core.NewValidationError(errors.New("invalid menu"),
					core.FieldError{Field: fmt.Sprintf("items[%d].submenus[%d].title", i, j), Error: "this field is required"})
			}
			for k, link := range sub.Links {
				if link.Key == "" {
					link.Key = uuid.NewString()
				}
				link.Title = core.CleanString(link.Title)
				link.Href = core.CleanString(link.Href)
				if link.Title == "" || link.Href == "" {
					return Menu{}, core.NewValidationError(errors.New("invalid menu"),
						core.FieldError{
							Field: fmt.Sprintf("items[%d].submenus[%d].links[%d]", i, j, k),
							Error: "title and href are required",
						})
				}
			}
			sub.Links = NewLinkCollection(sub.Links...).Items()
		}
		subs := make([]*Submenu, len(it.Submenus))
		copy(subs, it.Submenus)
		for n, sub := range subs {
			sub.SetPosition(n + 1)
		}
		it.Submenus = subs
	}

	menu.Items = NewItemCollection(menu.Items...).Items()
	menu.UpdatedAt = time.Now().UTC()
	return svc.repo.SaveMenu(menu)
}

// DefaultMenu is the seeded site navigation.
func DefaultMenu() Menu {
	return Menu{
		Items: []*MenuItem{
			{Key: uuid.NewString(), Title: "Home", Href: "/"},
			{
				Key:         uuid.NewString(),
				Title:       "Training",
				HasDropdown: true,
				Description: "Courses and ratings",
				Featured: &Featured{
					Title:       "Private Pilot Ground School",
					Description: "Everything you need for the FAA knowledge test.",
					Href:        "/courses/ppl-ground",
					Badge:       "Popular",
				},
				Submenus: []*Submenu{
					{
						Key:   uuid.NewString(),
						Title: "Certificates",
						Links: []*MenuLink{
							{Key: uuid.NewString(), Title: "Private Pilot", Href: "/courses/ppl"},
							{Key: uuid.NewString(), Title: "Commercial Pilot", Href: "/courses/cpl"},
							{Key: uuid.NewString(), Title: "Instrument Rating", Href: "/courses/ir"},
						},
					},
				},
			},
			{Key: uuid.NewString(), Title: "About", Href: "/about"},
			{Key: uuid.NewString(), Title: "Contact", Href: "/contact"},
		},
	}
}
