package inmemdb

import (
	"encoding/json"

	"github.com/tailcraft/avialearn/core/nav"
)

type menuRepository struct {
	db *menuTable
}

func NewMenuRepository(db *DB) nav.Repository {
	return &menuRepository{db: db.menu}
}

func copyMenu(menu nav.Menu) nav.Menu {
	data, _ := json.Marshal(menu)
	var cp nav.Menu
	_ = json.Unmarshal(data, &cp)
	return cp
}

func (repo *menuRepository) GetMenu() (nav.Menu, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.menu == nil {
		return nav.Menu{}, nav.ErrNotFound
	}
	return copyMenu(*repo.db.menu), nil
}

func (repo *menuRepository) SaveMenu(menu nav.Menu) (nav.Menu, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored := copyMenu(menu)
	repo.db.menu = &stored
	return menu, nil
}
