package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tupine/lifegear/core"
	"github.com/tupine/lifegear/services/campus"
	"github.com/tupine/lifegear/services/realtime"
	"github.com/tupine/lifegear/storage/session"
)

type authApi struct {
	conf     *core.Config
	clt      *campus.Client
	store    session.Store
	hub      *realtime.Hub
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := authApi{
		conf:     deps.Conf,
		clt:      deps.CampusClt,
		store:    deps.Store,
		hub:      deps.Hub,
		validate: deps.Validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)

	sg := ag.Group("", authed...)
	sg.POST("/logout", api.logout)
	sg.GET("/check", api.check)
	sg.GET("/user/home", api.home)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	campusToken, err := api.clt.Login(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		if errors.Cause(err) == campus.ErrAuthenticationFailed {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating against campus")
	}

	sessionID := uuid.New().String()
	api.store.Touch(sessionID)

	claims := GetSessionClaims(api.conf, sessionID, data.Username, campusToken)
	token, err := GenerateToken(api.conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	ctx.SetCookie(newSessionCookie(api.conf, token, time.Unix(claims.ExpiresAt, 0)))

	return ctx.JSON(http.StatusOK, LoginResponse{Username: data.Username})
}

func (api *authApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	// The campus session may already be gone; local teardown happens anyway.
	if err = api.clt.Logout(ctx.Request().Context(), claims.CampusToken); err != nil && !campus.IsUnauthenticated(err) {
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "logging out of campus"))
	}

	api.store.Drop(claims.SessionID)
	api.hub.Broadcast(claims.SessionID, realtime.NewMessage(realtime.TypeSessionExpired, nil))
	ctx.SetCookie(expiredSessionCookie(api.conf))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) check(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err = api.clt.Check(ctx.Request().Context(), claims.CampusToken); err != nil {
		return errors.Wrap(err, "checking campus session")
	}
	return ctx.JSON(http.StatusOK, CheckResponse{Authenticated: true, Username: claims.Username})
}

func (api *authApi) home(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	profile, err := api.clt.Home(ctx.Request().Context(), claims.CampusToken)
	if err != nil {
		return errors.Wrap(err, "fetching campus profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Username string `json:"username"`
	}

	CheckResponse struct {
		Authenticated bool   `json:"authenticated"`
		Username      string `json:"username,omitempty"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}
