package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core/nav"
)

type navApi struct {
	svc *nav.Service
}

func registerNavAPI(g *echo.Group, deps ServerDeps) {
	api := navApi{svc: deps.NavSvc}

	ng := g.Group("/cms/menu")
	ng.GET("", api.retrieve)
	ng.PUT("", api.save)
}

func (api *navApi) retrieve(ctx echo.Context) error {
	menu, err := api.svc.GetMenu()
	if err != nil {
		if errors.Cause(err) == nav.ErrNotFound {
			// a fresh install has no stored menu yet
			return ctx.JSON(http.StatusOK, nav.DefaultMenu())
		}
		return errors.Wrap(err, "getting menu")
	}
	return ctx.JSON(http.StatusOK, menu)
}

// save replaces the whole navigation tree.
func (api *navApi) save(ctx echo.Context) error {
	var menu nav.Menu
	if err := ctx.Bind(&menu); err != nil {
		return errors.Wrap(err, "binding to Menu")
	}

	saved, err := api.svc.SaveMenu(menu)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, saved)
}
