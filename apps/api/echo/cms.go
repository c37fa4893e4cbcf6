package echoapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tailcraft/avialearn/core/cms"
)

// maxUploadSize caps staged team images at 5MiB.
const maxUploadSize = 5 << 20

type (
	cmsApi struct {
		svc             *cms.Service
		validate        *validator.Validate
		frontendBaseURL string
	}

	// aboutResponse decorates the stored page with a link to the rendered page.
	aboutResponse struct {
		cms.AboutPage
		LiveURL string `json:"live_url,omitempty"`
	}
)

func registerCMSAPI(g *echo.Group, deps ServerDeps) {
	api := cmsApi{svc: deps.CMSSvc, validate: deps.Validate, frontendBaseURL: deps.Conf.FrontendBaseURL}

	cg := g.Group("/cms/about")
	cg.GET("", api.retrieve)
	cg.PUT("", api.save)
	cg.POST("/sections/:key/duplicate", api.duplicateSection)
	cg.POST("/team/:key/image", api.stageTeamImage)
}

func (api *cmsApi) retrieve(ctx echo.Context) error {
	page, err := api.svc.GetAboutPage()
	if err != nil {
		if errors.Cause(err) == cms.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting about page")
	}
	return ctx.JSON(http.StatusOK, aboutResponse{AboutPage: page, LiveURL: api.liveURL()})
}

// liveURL builds the public address of the rendered About page.
func (api *cmsApi) liveURL() string {
	if api.frontendBaseURL == "" {
		return ""
	}
	return strings.TrimRight(api.frontendBaseURL, "/") + "/about"
}

// save replaces the whole document; the request carries every section and
// team member, staged uploads included.
func (api *cmsApi) save(ctx echo.Context) error {
	var page cms.AboutPage
	if err := ctx.Bind(&page); err != nil {
		return errors.Wrap(err, "binding to AboutPage")
	}

	saved, err := api.svc.SaveAboutPage(page, api.validate)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, saved)
}

func (api *cmsApi) duplicateSection(ctx echo.Context) error {
	page, err := api.svc.DuplicateSection(ctx.Param("key"), api.validate)
	if err != nil {
		if errors.Cause(err) == cms.ErrNotFound {
			return errHTTPNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, page)
}

// stageTeamImage attaches a multipart image to a team member as a staged
// upload; the file is only stored when the page is saved.
func (api *cmsApi) stageTeamImage(ctx echo.Context) error {
	fileHdr, err := ctx.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	if fileHdr.Size > maxUploadSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image too large")
	}

	file, err := fileHdr.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return errors.Wrap(err, "reading upload")
	}

	page, err := api.svc.GetAboutPage()
	if err != nil {
		if errors.Cause(err) == cms.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting about page")
	}

	key := ctx.Param("key")
	var member *cms.TeamMember
	for _, mbr := range page.Team {
		if mbr.ID == key {
			member = mbr
			break
		}
	}
	if member == nil {
		return errHTTPNotFound
	}
	member.PendingImage = &cms.Upload{
		Filename:    fileHdr.Filename,
		ContentType: fileHdr.Header.Get(echo.HeaderContentType),
		Data:        data,
	}

	saved, err := api.svc.SaveAboutPage(page, api.validate)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, saved)
}
