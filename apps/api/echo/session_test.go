package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeCampusAuth() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("username") == "6501234" && r.PostForm.Get("password") == "s3cret" {
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "tok-abc"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/api/v1/auth/check", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("access_token"); err != nil || ck.Value != "tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/api/v1/auth/user/home", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"u1","username":"6501234","role":"student","first_name_th":"สมชาย"}`))
	})
	return mux
}

func TestLoginSetsSessionCookie(t *testing.T) {
	app := setup(t, fakeCampusAuth())

	rec := app.do(t, http.MethodPost, "/v1/auth/login",
		LoginRequest{Username: "6501234", Password: "s3cret"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "6501234", resp.Username)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, "lg_session", ck.Name)
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)
}

func TestLoginBadCredentials(t *testing.T) {
	app := setup(t, fakeCampusAuth())

	rec := app.do(t, http.MethodPost, "/v1/auth/login",
		LoginRequest{Username: "6501234", Password: "nope"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"authentication failed"}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginMissingFields(t *testing.T) {
	app := setup(t, fakeCampusAuth())

	rec := app.do(t, http.MethodPost, "/v1/auth/login", LoginRequest{Username: "6501234"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"password":"this field is required"}`, rec.Body.String())
}

func TestAuthedEndpointsRequireCookie(t *testing.T) {
	app := setup(t, fakeCampusAuth())

	for _, path := range []string{"/v1/auth/check", "/v1/auth/user/home"} {
		rec := app.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"error":"missing or malformed jwt"}`, rec.Body.String(), path)
	}
}

func TestCheck(t *testing.T) {
	app := setup(t, fakeCampusAuth())
	ck := app.sessionCookie(t, "s1", "6501234", "tok-abc")

	rec := app.do(t, http.MethodGet, "/v1/auth/check", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":true,"username":"6501234"}`, rec.Body.String())
}

func TestCheckStaleCampusTokenEndsSession(t *testing.T) {
	app := setup(t, fakeCampusAuth())
	ck := app.sessionCookie(t, "s1", "6501234", "stale")

	rec := app.do(t, http.MethodGet, "/v1/auth/check", nil, ck)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"session expired"}`, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}

func TestHome(t *testing.T) {
	app := setup(t, fakeCampusAuth())
	ck := app.sessionCookie(t, "s1", "6501234", "tok-abc")

	rec := app.do(t, http.MethodGet, "/v1/auth/user/home", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile map[string]interface{}
	decodeJSON(t, rec, &profile)
	assert.Equal(t, "6501234", profile["username"])
	assert.Equal(t, "สมชาย", profile["first_name_th"])
}

func TestLogoutDropsSession(t *testing.T) {
	app := setup(t, fakeCampusAuth())
	app.store.Set("s1", "k", []byte("v"))
	ck := app.sessionCookie(t, "s1", "6501234", "tok-abc")

	rec := app.do(t, http.MethodPost, "/v1/auth/logout", nil, ck)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, ok := app.store.Get("s1", "k")
	assert.False(t, ok)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}
