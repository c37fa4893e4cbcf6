package echoapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/instructor"
	exportsvc "github.com/tailcraft/avialearn/services/export"
)

type instructorApi struct {
	svc      *instructor.Service
	validate *validator.Validate
}

func registerInstructorAPI(g *echo.Group, deps ServerDeps) {
	api := instructorApi{svc: deps.InstructorSvc, validate: deps.Validate}

	ig := g.Group("/instructors")
	ig.POST("", api.create)
	ig.GET("", api.query)
	ig.DELETE("", api.destroyMultiple)
	ig.GET("/export", api.export)

	dg := ig.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/toggle-status", api.toggleStatus)
}

func (api *instructorApi) create(ctx echo.Context) error {
	var data instructor.NewInstructor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInstructor")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	ins, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating instructor")
	}
	return ctx.JSON(http.StatusCreated, ins)
}

func (api *instructorApi) query(ctx echo.Context) error {
	filter := new(instructor.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx)

	instructors, total, err := api.svc.Query(*filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying instructors")
	}
	stats, err := api.svc.Stats()
	if err != nil {
		return errors.Wrap(err, "getting instructor stats")
	}
	if instructors == nil {
		instructors = []instructor.Instructor{}
	}
	return ctx.JSON(http.StatusOK, ListEnvelope{
		Items: instructors,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
		Stats: stats,
	})
}

func (api *instructorApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	ins, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == instructor.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting instructor")
	}
	return ctx.JSON(http.StatusOK, ins)
}

func (api *instructorApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	orig, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == instructor.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting instructor")
	}

	var data instructor.UpdateInstructor
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateInstructor")
	}
	if err = data.Validate(api.validate, orig, api.svc); err != nil {
		return err
	}

	ins, err := api.svc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating instructor")
	}
	return ctx.JSON(http.StatusOK, ins)
}

func (api *instructorApi) toggleStatus(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	ins, err := api.svc.ToggleStatus(id)
	if err != nil {
		if errors.Cause(err) == instructor.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "toggling instructor status")
	}
	return ctx.JSON(http.StatusOK, ins)
}

func (api *instructorApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.GetByID(id); err != nil {
		if errors.Cause(err) == instructor.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting instructor")
	}
	if err = api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting instructor")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *instructorApi) destroyMultiple(ctx echo.Context) error {
	var data DeleteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeleteRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}
	if err := api.svc.Delete(data.IDs...); err != nil {
		return errors.Wrap(err, "deleting instructors")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *instructorApi) export(ctx echo.Context) error {
	format, err := exportsvc.ParseFormat(ctx.QueryParam("format"))
	if err != nil {
		return err
	}

	filter := new(instructor.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	table := exportsvc.Table{Headers: []string{
		"id", "name", "email", "phone", "ratings", "status", "created_at",
	}}
	page := core.ListParams{Page: 1, Limit: core.MaxPageSize}
	for {
		instructors, total, err := api.svc.Query(*filter, ordering.Orderings, page)
		if err != nil {
			return errors.Wrap(err, "querying instructors")
		}
		for _, ins := range instructors {
			table.Append(
				strconv.Itoa(ins.ID), ins.Name, ins.Email, ins.Phone,
				strings.Join(ins.Ratings, "|"), ins.Status,
				ins.CreatedAt.Format("2006-01-02"),
			)
		}
		if len(instructors) == 0 || len(table.Rows) >= total {
			break
		}
		page.Page++
	}

	return sendExport(ctx, "instructors", format, table)
}
