package cms

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/tailcraft/avialearn/core"
)

var (
	// errors
	ErrNotFound = errors.New("about page not found")
)

type (
	Repository interface {
		GetAboutPage() (AboutPage, error)
		// SaveAboutPage replaces the stored document wholesale.
		SaveAboutPage(page AboutPage) (AboutPage, error)
	}

	// FileStore persists staged uploads and returns their public path.
	FileStore interface {
		SaveFile(filename, contentType string, data []byte) (string, error)
	}

	Service struct {
		repo     Repository
		files    FileStore
		sanitize *bluemonday.Policy
	}
)

func NewService(repo Repository, files FileStore) *Service {
	return &Service{
		repo:     repo,
		files:    files,
		sanitize: bluemonday.UGCPolicy(),
	}
}

func (svc *Service) GetAboutPage() (AboutPage, error) {
	return svc.repo.GetAboutPage()
}

// SaveAboutPage validates, sanitizes and persists the whole document:
// section HTML goes through bluemonday, orders are renumbered dense/1-based,
// and pending team images are uploaded then cleared from the records.
func (svc *Service) SaveAboutPage(page AboutPage, validate *validator.Validate) (AboutPage, error) {
	page.Title = core.CleanString(page.Title)
	page.Intro = core.CleanString(page.Intro)
	if page.Title == "" {
		return AboutPage{}, core.NewValidationError(errors.New("invalid page"),
			core.FieldError{Field: "title", Error: "this field is required"})
	}

	sections := NewSectionCollection(page.Sections...)
	seen := make(map[string]bool, len(page.Sections))
	for i, sec := range sections.Items() {
		sec.Title = core.CleanString(sec.Title)
		if err := validate.Struct(sec); err != nil {
			return AboutPage{}, err
		}
		if seen[sec.ID] {
			return AboutPage{}, core.NewValidationError(errors.New("invalid page"),
				core.FieldError{Field: fmt.Sprintf("sections[%d].id", i), Error: "duplicate section id"})
		}
		seen[sec.ID] = true
		sec.Content = svc.sanitize.Sanitize(sec.Content)
	}

	team := NewMemberCollection(page.Team...)
	for _, mbr := range team.Items() {
		mbr.Name = core.CleanString(mbr.Name)
		mbr.Position = core.CleanString(mbr.Position)
		if err := validate.Struct(mbr); err != nil {
			return AboutPage{}, err
		}
		if err := svc.storePendingImage(mbr); err != nil {
			return AboutPage{}, err
		}
	}

	page.Sections = sections.Items()
	page.Team = team.Items()
	page.UpdatedAt = time.Now().UTC()
	return svc.repo.SaveAboutPage(page)
}

// DuplicateSection clones a section in the stored page and saves the result.
func (svc *Service) DuplicateSection(key string, validate *validator.Validate) (AboutPage, error) {
	page, err := svc.repo.GetAboutPage()
	if err != nil {
		return AboutPage{}, err
	}
	sections := NewSectionCollection(page.Sections...)
	if _, ok := sections.Duplicate(key); !ok {
		return AboutPage{}, core.NewValidationError(errors.New("unknown section"),
			core.FieldError{Field: "id", Error: "unknown section"})
	}
	page.Sections = sections.Items()
	return svc.SaveAboutPage(page, validate)
}

func (svc *Service) storePendingImage(mbr *TeamMember) error {
	if mbr.PendingImage == nil || svc.files == nil {
		mbr.PendingImage = nil
		return nil
	}
	up := mbr.PendingImage
	name := mbr.ID + path.Ext(up.Filename)
	url, err := svc.files.SaveFile(name, up.ContentType, up.Data)
	if err != nil {
		return err
	}
	mbr.Image = url
	mbr.PendingImage = nil
	return nil
}
