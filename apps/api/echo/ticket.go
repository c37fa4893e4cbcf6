package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core"
	"github.com/tailcraft/avialearn/core/ticket"
	exportsvc "github.com/tailcraft/avialearn/services/export"
)

type (
	ticketApi struct {
		svc      *ticket.Service
		validate *validator.Validate
	}

	// StatusRequest sets a ticket's workflow status.
	StatusRequest struct {
		Status string `json:"status" validate:"required"`
	}

	// PriorityRequest sets a ticket's triage priority.
	PriorityRequest struct {
		Priority string `json:"priority" validate:"required"`
	}
)

func registerTicketAPI(g *echo.Group, deps ServerDeps) {
	api := ticketApi{svc: deps.TicketSvc, validate: deps.Validate}

	tg := g.Group("/tickets")
	tg.POST("", api.create)
	tg.GET("", api.query)
	tg.DELETE("", api.destroyMultiple)
	tg.GET("/export", api.export)

	dg := tg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.POST("/replies", api.reply)
	dg.PUT("/status", api.setStatus)
	dg.PUT("/priority", api.setPriority)
}

func (api *ticketApi) create(ctx echo.Context) error {
	var data ticket.NewTicket
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTicket")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	tkt, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating ticket")
	}
	return ctx.JSON(http.StatusCreated, tkt)
}

func (api *ticketApi) query(ctx echo.Context) error {
	filter := new(ticket.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx)

	tickets, total, err := api.svc.Query(*filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying tickets")
	}
	stats, err := api.svc.Stats()
	if err != nil {
		return errors.Wrap(err, "getting ticket stats")
	}
	if tickets == nil {
		tickets = []ticket.Ticket{}
	}
	return ctx.JSON(http.StatusOK, ListEnvelope{
		Items: tickets,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
		Stats: stats,
	})
}

func (api *ticketApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	tkt, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == ticket.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting ticket")
	}
	return ctx.JSON(http.StatusOK, tkt)
}

func (api *ticketApi) reply(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data ticket.NewReply
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReply")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	tkt, err := api.svc.Reply(id, data)
	if err != nil {
		if errors.Cause(err) == ticket.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "replying to ticket")
	}
	return ctx.JSON(http.StatusCreated, tkt)
}

func (api *ticketApi) setStatus(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data StatusRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusRequest")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	tkt, err := api.svc.SetStatus(id, core.CleanString(data.Status, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ticket.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "setting ticket status")
	}
	return ctx.JSON(http.StatusOK, tkt)
}

func (api *ticketApi) setPriority(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data PriorityRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PriorityRequest")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	tkt, err := api.svc.SetPriority(id, core.CleanString(data.Priority, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ticket.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "setting ticket priority")
	}
	return ctx.JSON(http.StatusOK, tkt)
}

func (api *ticketApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.GetByID(id); err != nil {
		if errors.Cause(err) == ticket.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting ticket")
	}
	if err = api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting ticket")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *ticketApi) destroyMultiple(ctx echo.Context) error {
	var data DeleteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DeleteRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}
	if err := api.svc.Delete(data.IDs...); err != nil {
		return errors.Wrap(err, "deleting tickets")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *ticketApi) export(ctx echo.Context) error {
	format, err := exportsvc.ParseFormat(ctx.QueryParam("format"))
	if err != nil {
		return err
	}

	filter := new(ticket.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	table := exportsvc.Table{Headers: []string{
		"id", "subject", "requester_name", "requester_email", "category", "priority", "status", "created_at",
	}}
	page := core.ListParams{Page: 1, Limit: core.MaxPageSize}
	for {
		tickets, total, err := api.svc.Query(*filter, ordering.Orderings, page)
		if err != nil {
			return errors.Wrap(err, "querying tickets")
		}
		for _, tkt := range tickets {
			table.Append(
				strconv.Itoa(tkt.ID), tkt.Subject, tkt.RequesterName, tkt.RequesterEmail,
				tkt.Category, tkt.Priority, tkt.Status, tkt.CreatedAt.Format("2006-01-02"),
			)
		}
		if len(tickets) == 0 || len(table.Rows) >= total {
			break
		}
		page.Page++
	}

	return sendExport(ctx, "tickets", format, table)
}
