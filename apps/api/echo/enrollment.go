package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/enrollment"
	exportsvc "github.com/tailcraft/avialearn/services/export"
)

type enrollmentApi struct {
	svc      *enrollment.Service
	validate *validator.Validate
}

func registerEnrollmentAPI(g *echo.Group, deps ServerDeps) {
	api := enrollmentApi{svc: deps.EnrollmentSvc, validate: deps.Validate}

	eg := g.Group("/enrollments")
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.DELETE("", api.destroyMultiple)
	eg.GET("/export", api.export)

	dg := eg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/approve", api.approve)
	dg.POST("/complete", api.complete)
	dg.POST("/cancel", api.cancel)
}

func (api *enrollmentApi) create(ctx echo.Context) error {
	var data enrollment.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	enr, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating enrollment")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *enrollmentApi) query(ctx echo.Context) error {
	filter := new(enrollment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx)

	enrollments, total, err := api.svc.Query(*filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying enrollments")
	}
	stats, err := api.svc.Stats()
	if err != nil {
		return errors.Wrap(err, "getting enrollment stats")
	}
	if enrollments == nil {
		enrollments = []enrollment.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, ListEnvelope{
		Items: enrollments,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
		Stats: stats,
	})
}

func (api *enrollmentApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	enr, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == enrollment.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting enrollment")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	orig, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == enrollment.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting enrollment")
	}

	var data enrollment.UpdateEnrollment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEnrollment")
	}
	if err = data.Validate(api.validate, orig); err != nil {
		return err
	}

	enr, err := api.svc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating enrollment")
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) approve(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Approve, "approving enrollment")
}

func (api *enrollmentApi) complete(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Complete, "completing enrollment")
}

func (api *enrollmentApi) cancel(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Cancel, "cancelling enrollment")
}

func (api *enrollmentApi) transition(ctx echo.Context, change func(int) (enrollment.Enrollment, error), msg string) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	enr, err := change(id)
	if err != nil {
		if errors.Cause(err) == enrollment.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, msg)
	}
	return ctx.JSON(http.StatusOK, enr)
}

func (api *enrollmentApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.GetByID(id); err != nil {
		if errors.Cause(err) == enrollment.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting enrollment")
	}
	if err = api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *enrollmentApi) destroyMultiple(ctx echo.Context) error {
	var data DeleteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeleteRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}
	if err := api.svc.Delete(data.IDs...); err != nil {
		return errors.Wrap(err, "deleting enrollments")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *enrollmentApi) export(ctx echo.Context) error {
	format, err := exportsvc.ParseFormat(ctx.QueryParam("format"))
	if err != nil {
		return err
	}

	filter := new(enrollment.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	table := exportsvc.Table{Headers: []string{
		"id", "student_id", "course_id", "course_title", "status", "progress", "created_at",
	}}
	page := core.ListParams{Page: 1, Limit: core.MaxPageSize}
	for {
		enrollments, total, err := api.svc.Query(*filter, ordering.Orderings, page)
		if err != nil {
			return errors.Wrap(err, "querying enrollments")
		}
		for _, enr := range enrollments {
			table.Append(
				strconv.Itoa(enr.ID), strconv.Itoa(enr.StudentID), enr.CourseID, enr.CourseTitle,
				enr.Status, strconv.Itoa(enr.Progress), enr.CreatedAt.Format("2006-01-02"),
			)
		}
		if len(enrollments) == 0 || len(table.Rows) >= total {
			break
		}
		page.Page++
	}

	return sendExport(ctx, "enrollments", format, table)
}
