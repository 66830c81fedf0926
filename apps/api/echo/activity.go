package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tupine/lifegear/core/activity"
)

type activityApi struct {
	svc *activity.Service
}

func registerActivityAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := activityApi{svc: deps.ActivitySvc}

	ag := g.Group("/activities", authed...)
	ag.GET("", api.list)
	ag.GET("/:ref", api.retrieve)
	ag.GET("/:ref/preview", api.preview)
}

// Handlers

func (api *activityApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	thumbs, err := api.svc.Upcoming(ctx.Request().Context(), claims.SessionID, claims.CampusToken)
	if err != nil {
		return errors.Wrap(err, "listing upcoming activities")
	}
	if thumbs == nil {
		thumbs = []activity.Thumbnail{}
	}
	return ctx.JSON(http.StatusOK, thumbs)
}

// retrieve resolves :ref as an activity id or a slug, whichever matches.
func (api *activityApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	detail, err := api.svc.Detail(ctx.Request().Context(), claims.CampusToken, ctx.Param("ref"))
	if err != nil {
		return errors.Wrap(err, "fetching activity detail")
	}
	return ctx.JSON(http.StatusOK, detail)
}

// preview serves the session-cached thumbnail so the detail page can paint
// before the full fetch lands.
func (api *activityApi) preview(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	thumb, ok := api.svc.Preview(claims.SessionID, ctx.Param("ref"))
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, thumb)
}
