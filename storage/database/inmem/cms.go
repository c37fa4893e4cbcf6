package inmemdb

import (
	"encoding/json"

	"github.com/tailcraft/avialearn/core/cms"
)

type aboutRepository struct {
	db *aboutTable
}

func NewAboutRepository(db *DB) cms.Repository {
	return &aboutRepository{db: db.about}
}

// copyPage deep-copies via JSON; the document is small and save-time only.
func copyPage(page cms.AboutPage) cms.AboutPage {
	data, _ := json.Marshal(page)
	var cp cms.AboutPage
	_ = json.Unmarshal(data, &cp)
	return cp
}

func (repo *aboutRepository) GetAboutPage() (cms.AboutPage, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.page == nil {
		return cms.AboutPage{}, cms.ErrNotFound
	}
	return copyPage(*repo.db.page), nil
}

func (repo *aboutRepository) SaveAboutPage(page cms.AboutPage) (cms.AboutPage, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored := copyPage(page)
	repo.db.page = &stored
	return page, nil
}
