package echoapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tailcraft/avialearn/core"
	exportsvc "github.com/tailcraft/avialearn/services/export"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind parses the "ordering" query param: comma-separated fields,
// "-" prefix for descending. eg. ?ordering=-created_at,name
func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// ListEnvelope is the uniform paginated list response.
type ListEnvelope struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Stats interface{} `json:"stats,omitempty"`
}

func bindPage(ctx echo.Context) core.ListParams {
	var page core.ListParams
	_ = echo.QueryParamsBinder(ctx).
		Int("page", &page.Page).
		Int("limit", &page.Limit).
		BindError()
	page.Clean()
	return page
}

func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id < 1 {
		return 0, errHTTPNotFound
	}
	return id, nil
}

// DeleteRequest carries the ids of a bulk delete; a single batched
// request covers any number of selected rows.
type DeleteRequest struct {
	IDs []int `json:"ids" validate:"required,min=1,dive,min=1"`
}

func sendExport(ctx echo.Context, prefix string, format exportsvc.Format, table exportsvc.Table) error {
	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, format.ContentType())
	res.Header().Set(echo.HeaderContentDisposition,
		"attachment; filename="+exportsvc.Filename(prefix, format, time.Now().UTC()))
	res.WriteHeader(http.StatusOK)
	return exportsvc.Write(res, format, table)
}
