package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/tupine/lifegear/core"
	"github.com/tupine/lifegear/core/activity"
	"github.com/tupine/lifegear/core/bin"
	"github.com/tupine/lifegear/core/calendar"
	"github.com/tupine/lifegear/services/campus"
	emailsvc "github.com/tupine/lifegear/services/email"
	"github.com/tupine/lifegear/services/realtime"
	"github.com/tupine/lifegear/storage/session/inmem"
)

type testApp struct {
	srv      Server
	conf     *core.Config
	store    *inmem.Store
	binSvc   *bin.Service
	hub      *realtime.Hub
	upstream *httptest.Server
}

func newTestConfig(upstreamURL string) *core.Config {
	conf := &core.Config{
		AppName:          "LifeGear",
		Env:              "TEST",
		TestMode:         true,
		SecretKey:        "test-secret",
		DefaultFromEmail: mail.Address{Name: "LifeGear", Address: "noreply@lifegear.test"},
		SupportEmail:     mail.Address{Name: "LifeGear Support", Address: "support@lifegear.test"},
	}
	conf.Server.SessionCookieName = "lg_session"
	conf.Server.SessionExpirationDelta = time.Hour
	conf.Campus.BaseURL = upstreamURL
	conf.Campus.Timeout = 5 * time.Second
	conf.Bin.RetentionDays = 1
	return conf
}

func setup(t *testing.T, upstream http.Handler) *testApp {
	t.Helper()

	upstreamSrv := httptest.NewServer(upstream)
	t.Cleanup(upstreamSrv.Close)

	conf := newTestConfig(upstreamSrv.URL)
	store := inmem.Open()
	campusClt := campus.NewClient(conf)
	binSvc := bin.NewService(store)
	hub := realtime.NewHub()

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)

	srv := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         nopLogger{},
		CampusClt:      campusClt,
		CalendarSvc:    calendar.NewService(campusClt, binSvc),
		ActivitySvc:    activity.NewService(campusClt, store),
		BinSvc:         binSvc,
		Store:          store,
		MailSvc:        emailsvc.NewConsoleServiceMock(conf),
		Hub:            hub,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})

	return &testApp{
		srv:      srv,
		conf:     conf,
		store:    store,
		binSvc:   binSvc,
		hub:      hub,
		upstream: upstreamSrv,
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func (app *testApp) sessionCookie(t *testing.T, sessionID, username, campusToken string) *http.Cookie {
	t.Helper()
	claims := GetSessionClaims(app.conf, sessionID, username, campusToken)
	token, err := GenerateToken(app.conf, claims)
	require.NoError(t, err)
	return &http.Cookie{Name: app.conf.Server.SessionCookieName, Value: token}
}

func (app *testApp) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	app.srv.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
