package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core/cms"
	"github.com/tailcraft/avialearn/core/nav"
)

// The about page and the site menu live in site_documents as whole jsonb
// documents, one row each. Saving replaces the document wholesale.
const (
	docAboutPage = "about_page"
	docSiteMenu  = "site_menu"
)

func getDocument(db *sqlx.DB, name string, dst interface{}) (bool, error) {
	var raw json.RawMessage
	err := db.Get(&raw, "SELECT doc FROM site_documents WHERE name = $1", name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "getting %s document", name)
	}
	if err = json.Unmarshal(raw, dst); err != nil {
		return false, errors.Wrapf(err, "decoding %s document", name)
	}
	return true, nil
}

func saveDocument(db *sqlx.DB, name string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "encoding %s document", name)
	}

	q := `INSERT INTO site_documents (name, doc, updated_at) VALUES ($1, $2, $3)
	      ON CONFLICT (name) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`
	if _, err = db.Exec(q, name, raw, time.Now().UTC()); err != nil {
		return errors.Wrapf(err, "saving %s document", name)
	}
	return nil
}

type aboutPageRepository struct {
	db *sqlx.DB
}

func NewAboutPageRepository(db *sqlx.DB) cms.Repository {
	return &aboutPageRepository{db: db}
}

func (repo *aboutPageRepository) GetAboutPage() (cms.AboutPage, error) {
	var page cms.AboutPage
	found, err := getDocument(repo.db, docAboutPage, &page)
	if err != nil {
		return cms.AboutPage{}, err
	}
	if !found {
		return cms.AboutPage{}, cms.ErrNotFound
	}
	return page, nil
}

func (repo *aboutPageRepository) SaveAboutPage(page cms.AboutPage) (cms.AboutPage, error) {
	if err := saveDocument(repo.db, docAboutPage, page); err != nil {
		return cms.AboutPage{}, err
	}
	return page, nil
}

type menuRepository struct {
	db *sqlx.DB
}

func NewMenuRepository(db *sqlx.DB) nav.Repository {
	return &menuRepository{db: db}
}

func (repo *menuRepository) GetMenu() (nav.Menu, error) {
	var menu nav.Menu
	found, err := getDocument(repo.db, docSiteMenu, &menu)
	if err != nil {
		return nav.Menu{}, err
	}
	if !found {
		return nav.Menu{}, nav.ErrNotFound
	}
	return menu, nil
}

func (repo *menuRepository) SaveMenu(menu nav.Menu) (nav.Menu, error) {
	if err := saveDocument(repo.db, docSiteMenu, menu); err != nil {
		return nav.Menu{}, err
	}
	return menu, nil
}
