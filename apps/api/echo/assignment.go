package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/assignment"
	exportsvc "github.com/tailcraft/avialearn/services/export"
)

type assignmentApi struct {
	svc      *assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, deps ServerDeps) {
	api := assignmentApi{svc: deps.AssignmentSvc, validate: deps.Validate}

	ag := g.Group("/assignments")
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.DELETE("", api.destroyMultiple)
	ag.GET("/export", api.export)

	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/publish", api.publish)
	dg.POST("/close", api.close)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	asg, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	filter := new(assignment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx)

	assignments, total, err := api.svc.Query(*filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	stats, err := api.svc.Stats()
	if err != nil {
		return errors.Wrap(err, "getting assignment stats")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, ListEnvelope{
		Items: assignments,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
		Stats: stats,
	})
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	asg, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting assignment")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	orig, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting assignment")
	}

	var data assignment.UpdateAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err = data.Validate(api.validate, orig); err != nil {
		return err
	}

	asg, err := api.svc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) publish(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Publish, "publishing assignment")
}

func (api *assignmentApi) close(ctx echo.Context) error {
	return api.transition(ctx, api.svc.Close, "closing assignment")
}

func (api *assignmentApi) transition(ctx echo.Context, change func(int) (assignment.Assignment, error), msg string) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	asg, err := change(id)
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, msg)
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.GetByID(id); err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting assignment")
	}
	if err = api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assignmentApi) destroyMultiple(ctx echo.Context) error {
	var data DeleteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeleteRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}
	if err := api.svc.Delete(data.IDs...); err != nil {
		return errors.Wrap(err, "deleting assignments")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assignmentApi) export(ctx echo.Context) error {
	format, err := exportsvc.ParseFormat(ctx.QueryParam("format"))
	if err != nil {
		return err
	}

	filter := new(assignment.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	table := exportsvc.Table{Headers: []string{
		"id", "course_id", "title", "max_points", "due_at", "status", "created_at",
	}}
	page := core.ListParams{Page: 1, Limit: core.MaxPageSize}
	for {
		assignments, total, err := api.svc.Query(*filter, ordering.Orderings, page)
		if err != nil {
			return errors.Wrap(err, "querying assignments")
		}
		for _, asg := range assignments {
			dueAt := ""
			if !asg.DueAt.IsZero() {
				dueAt = asg.DueAt.Format("2006-01-02")
			}
			table.Append(
				strconv.Itoa(asg.ID), asg.CourseID, asg.Title, strconv.Itoa(asg.MaxPoints),
				dueAt, asg.Status, asg.CreatedAt.Format("2006-01-02"),
			)
		}
		if len(assignments) == 0 || len(table.Rows) >= total {
			break
		}
		page.Page++
	}

	return sendExport(ctx, "assignments", format, table)
}
