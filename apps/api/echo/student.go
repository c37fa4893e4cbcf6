package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/student"
	exportsvc "github.com/tailcraft/avialearn/services/export"
)

type studentApi struct {
	svc      *student.Service
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, deps ServerDeps) {
	api := studentApi{svc: deps.StudentSvc, validate: deps.Validate}

	sg := g.Group("/students")
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.DELETE("", api.destroyMultiple)
	sg.GET("/export", api.export)

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/approve", api.approve)
	dg.POST("/suspend", api.suspend)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	std, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx)

	students, total, err := api.svc.Query(*filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	stats, err := api.svc.Stats()
	if err != nil {
		return errors.Wrap(err, "getting student stats")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, ListEnvelope{
		Items: students,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
		Stats: stats,
	})
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	std, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	orig, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting student")
	}

	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err = data.Validate(api.validate, orig, api.svc); err != nil {
		return err
	}

	std, err := api.svc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) approve(ctx echo.Context) error {
	return api.setStatus(ctx, api.svc.Approve)
}

func (api *studentApi) suspend(ctx echo.Context) error {
	return api.setStatus(ctx, api.svc.Suspend)
}

func (api *studentApi) setStatus(ctx echo.Context, change func(int) (student.Student, error)) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	std, err := change(id)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "changing student status")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.GetByID(id); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting student")
	}
	if err = api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	var data DeleteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeleteRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}
	if err := api.svc.Delete(data.IDs...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) export(ctx echo.Context) error {
	format, err := exportsvc.ParseFormat(ctx.QueryParam("format"))
	if err != nil {
		return err
	}

	filter := new(student.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	table := exportsvc.Table{Headers: []string{
		"id", "name", "email", "phone", "license_goal", "flight_hours", "status", "created_at",
	}}
	page := core.ListParams{Page: 1, Limit: core.MaxPageSize}
	for {
		students, total, err := api.svc.Query(*filter, ordering.Orderings, page)
		if err != nil {
			return errors.Wrap(err, "querying students")
		}
		for _, std := range students {
			table.Append(
				strconv.Itoa(std.ID), std.Name, std.Email, std.Phone, std.LicenseGoal,
				strconv.FormatFloat(std.FlightHours, 'f', -1, 64), std.Status,
				std.CreatedAt.Format("2006-01-02"),
			)
		}
		if len(students) == 0 || len(table.Rows) >= total {
			break
		}
		page.Page++
	}

	return sendExport(ctx, "students", format, table)
}
