package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/quiz"
	exportsvc "github.com/tailcraft/avialearn/services/export"
)

type quizApi struct {
	svc      *quiz.Service
	validate *validator.Validate
}

func registerQuizAPI(g *echo.Group, deps ServerDeps) {
	api := quizApi{svc: deps.QuizSvc, validate: deps.Validate}

	qg := g.Group("/quizzes")
	qg.POST("", api.create)
	qg.GET("", api.query)
	qg.DELETE("", api.destroyMultiple)
	qg.GET("/templates", api.queryTemplates)
	qg.GET("/export", api.export)

	dg := qg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/duplicate", api.duplicate)
	dg.POST("/toggle-status", api.toggleStatus)
}

func (api *quizApi) create(ctx echo.Context) error {
	var data quiz.NewQuiz
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuiz")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	qz, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating quiz")
	}
	return ctx.JSON(http.StatusCreated, qz)
}

func (api *quizApi) query(ctx echo.Context) error {
	filter := new(quiz.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx)

	quizzes, total, err := api.svc.Query(*filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying quizzes")
	}
	stats, err := api.svc.Stats()
	if err != nil {
		return errors.Wrap(err, "getting quiz stats")
	}
	if quizzes == nil {
		quizzes = []quiz.Quiz{}
	}
	return ctx.JSON(http.StatusOK, ListEnvelope{
		Items: quizzes,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
		Stats: stats,
	})
}

func (api *quizApi) queryTemplates(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, quiz.Templates())
}

func (api *quizApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	qz, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting quiz")
	}
	return ctx.JSON(http.StatusOK, qz)
}

func (api *quizApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	orig, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting quiz")
	}

	var data quiz.UpdateQuiz
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateQuiz")
	}
	if err = data.Validate(api.validate, orig); err != nil {
		return err
	}

	qz, err := api.svc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating quiz")
	}
	return ctx.JSON(http.StatusOK, qz)
}

func (api *quizApi) duplicate(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	qz, err := api.svc.Duplicate(id)
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "duplicating quiz")
	}
	return ctx.JSON(http.StatusCreated, qz)
}

func (api *quizApi) toggleStatus(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	qz, err := api.svc.ToggleStatus(id)
	if err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "toggling quiz status")
	}
	return ctx.JSON(http.StatusOK, qz)
}

func (api *quizApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.GetByID(id); err != nil {
		if errors.Cause(err) == quiz.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting quiz")
	}
	if err = api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting quiz")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *quizApi) destroyMultiple(ctx echo.Context) error {
	var data DeleteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeleteRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}
	if err := api.svc.Delete(data.IDs...); err != nil {
		return errors.Wrap(err, "deleting quizzes")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *quizApi) export(ctx echo.Context) error {
	format, err := exportsvc.ParseFormat(ctx.QueryParam("format"))
	if err != nil {
		return err
	}

	filter := new(quiz.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	table := exportsvc.Table{Headers: []string{
		"id", "course_id", "title", "questions", "total_points", "status", "created_at",
	}}
	page := core.ListParams{Page: 1, Limit: core.MaxPageSize}
	for {
		quizzes, total, err := api.svc.Query(*filter, ordering.Orderings, page)
		if err != nil {
			return errors.Wrap(err, "querying quizzes")
		}
		for _, qz := range quizzes {
			table.Append(
				strconv.Itoa(qz.ID), qz.CourseID, qz.Title, strconv.Itoa(len(qz.Questions)),
				strconv.Itoa(qz.TotalPoints), qz.Status, qz.CreatedAt.Format("2006-01-02"),
			)
		}
		if len(quizzes) == 0 || len(table.Rows) >= total {
			break
		}
		page.Page++
	}

	return sendExport(ctx, "quizzes", format, table)
}
