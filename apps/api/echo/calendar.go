package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tupine/lifegear/core"
	"github.com/tupine/lifegear/core/calendar"
)

type calendarApi struct {
	conf     *core.Config
	svc      *calendar.Service
	validate *validator.Validate
}

func registerCalendarAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := calendarApi{
		conf:     deps.Conf,
		svc:      deps.CalendarSvc,
		validate: deps.Validate,
	}

	cg := g.Group("/calendar", authed...)
	cg.GET("/monthly", api.monthly)
	cg.GET("/daily", api.daily)
	cg.GET("/export.ics", api.exportICS)
}

// Handlers

func (api *calendarApi) monthly(ctx echo.Context) error {
	claims, query, err := api.bind(ctx)
	if err != nil {
		return err
	}
	year, month, _ := query.Ymd()

	days, err := api.svc.Monthly(ctx.Request().Context(), claims.SessionID, claims.CampusToken, year, month)
	if err != nil {
		return errors.Wrap(err, "aggregating monthly calendar")
	}
	return ctx.JSON(http.StatusOK, MonthlyResponse{Year: year, Month: month, Days: days})
}

func (api *calendarApi) daily(ctx echo.Context) error {
	claims, query, err := api.bind(ctx)
	if err != nil {
		return err
	}
	year, month, day := query.Ymd()

	events, err := api.svc.Daily(ctx.Request().Context(), claims.SessionID, claims.CampusToken, year, month, day)
	if err != nil {
		return errors.Wrap(err, "aggregating daily calendar")
	}
	if events == nil {
		events = []calendar.Event{}
	}
	return ctx.JSON(http.StatusOK, DailyResponse{Date: query.Date, Events: events})
}

func (api *calendarApi) exportICS(ctx echo.Context) error {
	claims, query, err := api.bind(ctx)
	if err != nil {
		return err
	}
	year, month, _ := query.Ymd()

	events, err := api.svc.MonthlyEvents(ctx.Request().Context(), claims.SessionID, claims.CampusToken, year, month)
	if err != nil {
		return errors.Wrap(err, "aggregating calendar for export")
	}

	filename := fmt.Sprintf("lifegear-%04d-%02d.ics", year, month)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar.BuildICS(api.conf.AppName, events)))
}

func (api *calendarApi) bind(ctx echo.Context) (Claims, DateQuery, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return Claims{}, DateQuery{}, errors.Wrap(err, "getting context claims")
	}

	var query DateQuery
	if err = ctx.Bind(&query); err != nil {
		return Claims{}, DateQuery{}, errors.Wrap(err, "binding to DateQuery")
	}
	if err = query.Validate(api.validate); err != nil {
		return Claims{}, DateQuery{}, err
	}
	return claims, query, nil
}

type (
	MonthlyResponse struct {
		Year  int                      `json:"year"`
		Month int                      `json:"month"`
		Days  map[int][]calendar.Event `json:"days"`
	}

	DailyResponse struct {
		Date   string           `json:"date"`
		Events []calendar.Event `json:"events"`
	}
)
