package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tupine/lifegear/core/bin"
)

type binApi struct {
	svc      *bin.Service
	validate *validator.Validate
}

func registerBinAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := binApi{svc: deps.BinSvc, validate: deps.Validate}

	bg := g.Group("/bin", authed...)
	bg.GET("", api.list)
	bg.POST("", api.remove)
	bg.DELETE("/:id", api.restore)
	bg.DELETE("", api.restoreAll)
}

// Handlers

func (api *binApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return ctx.JSON(http.StatusOK, api.svc.Entries(claims.SessionID))
}

// remove moves a calendar entry to the recycle bin; the entry disappears from
// aggregation until restored or purged.
func (api *binApi) remove(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data RemoveEntryRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RemoveEntryRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	api.svc.Add(claims.SessionID, bin.RemovedEntry{ID: data.ID, Title: data.Title, Kind: data.Kind})
	return ctx.JSON(http.StatusCreated, api.svc.Entries(claims.SessionID))
}

func (api *binApi) restore(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	api.svc.RestoreOne(claims.SessionID, ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *binApi) restoreAll(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	api.svc.RestoreAll(claims.SessionID)
	return ctx.NoContent(http.StatusNoContent)
}

type RemoveEntryRequest struct {
	ID    string `json:"id" validate:"required"`
	Title string `json:"title"`
	Kind  string `json:"kind" validate:"omitempty,oneof=class activity"`
}

func (r *RemoveEntryRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}
