// Package campus is the HTTP client for the upstream campus REST API: auth,
// activity listings and calendar payloads. It never retries; failures come
// back as wrapped errors the API layer turns into retryable responses.
package campus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tupine/lifegear/core"
	"github.com/tupine/lifegear/core/activity"
	"github.com/tupine/lifegear/core/calendar"
)

const (
	apiPrefix       = "/api/v1"
	authCookieName  = "access_token"
	statusQueryName = "status"
	dateQueryName   = "date"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUnauthenticated      = errors.New("campus session expired")
)

// UpstreamError is any non-2xx campus response not covered by a sentinel,
// or a transport failure (connection refused, client timeout) where no
// response arrived at all. These are transient as far as the UI is
// concerned: the user may retry.
type UpstreamError struct {
	StatusCode int
	Err        error // set when the request never produced a response
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("campus api: %v", e.Err)
	}
	return fmt.Sprintf("campus api: HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func IsUnauthenticated(err error) bool { return errors.Cause(err) == ErrUnauthenticated }

func IsUpstream(err error) bool {
	_, ok := errors.Cause(err).(*UpstreamError)
	return ok
}

// Profile is the student profile the campus auth endpoints serve.
type Profile struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      string      `json:"role"`
	FirstName null.String `json:"first_name_th,omitempty"`
	LastName  null.String `json:"last_name_th,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// the campus client backs both domain services
var (
	_ calendar.Client = (*Client)(nil)
	_ activity.Client = (*Client)(nil)
)

func NewClient(conf *core.Config) *Client {
	return &Client{
		baseURL: conf.Campus.BaseURL,
		http:    &http.Client{Timeout: conf.Campus.Timeout},
	}
}

// Login exchanges credentials for the campus access token. Bad credentials
// come back as ErrAuthenticationFailed.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{"username": {username}, "password": {password}}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+apiPrefix+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "building login request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.do(ctx, req, "login")
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return "", ErrAuthenticationFailed
	}
	if err = checkStatus(res); err != nil {
		return "", err
	}

	for _, ck := range res.Cookies() {
		if ck.Name == authCookieName {
			return ck.Value, nil
		}
	}
	return "", errors.New("campus login response carries no access token")
}

func (c *Client) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+"/auth/logout", nil)
	if err != nil {
		return errors.Wrap(err, "building logout request")
	}
	c.authorize(req, token)

	res, err := c.do(ctx, req, "logout")
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return checkStatus(res)
}

func (c *Client) Check(ctx context.Context, token string) error {
	return c.getJSON(ctx, token, "/auth/check", nil, nil)
}

func (c *Client) Home(ctx context.Context, token string) (Profile, error) {
	var p Profile
	err := c.getJSON(ctx, token, "/auth/user/home", nil, &p)
	return p, err
}

func (c *Client) Thumbnails(ctx context.Context, token, status string) ([]activity.Thumbnail, error) {
	var query url.Values
	if status != "" {
		query = url.Values{statusQueryName: {status}}
	}
	var thumbs []activity.Thumbnail
	err := c.getJSON(ctx, token, "/activities/thumbnails", query, &thumbs)
	return thumbs, err
}

func (c *Client) ActivityByID(ctx context.Context, token, id string) (activity.Detail, error) {
	var detail activity.Detail
	err := c.getJSON(ctx, token, "/activities/activity/"+url.PathEscape(id), nil, &detail)
	return detail, err
}

func (c *Client) ActivityBySlug(ctx context.Context, token, slug string) (activity.Detail, error) {
	var detail activity.Detail
	err := c.getJSON(ctx, token, "/activities/slug/"+url.PathEscape(slug), nil, &detail)
	return detail, err
}

func (c *Client) MonthlyCalendar(ctx context.Context, token, firstOfMonth string) (calendar.Payload, error) {
	var payload calendar.Payload
	err := c.getJSON(ctx, token, "/calendar/monthly", url.Values{dateQueryName: {firstOfMonth}}, &payload)
	return payload, err
}

func (c *Client) DailyCalendar(ctx context.Context, token, date string) (calendar.Payload, error) {
	var payload calendar.Payload
	err := c.getJSON(ctx, token, "/calendar/daily", url.Values{dateQueryName: {date}}, &payload)
	return payload, err
}

func (c *Client) getJSON(ctx context.Context, token, path string, query url.Values, out interface{}) error {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrapf(err, "building request for %s", path)
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req, token)

	res, err := c.do(ctx, req, path)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err = checkStatus(res); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding campus %s response", path)
	}
	return nil
}

// do sends the request, classifying transport failures other than
// cancellation as *UpstreamError.
func (c *Client) do(ctx context.Context, req *http.Request, op string) (*http.Response, error) {
	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(err, "calling campus %s", op)
		}
		return nil, errors.Wrapf(&UpstreamError{Err: err}, "calling campus %s", op)
	}
	return res, nil
}

func (c *Client) authorize(req *http.Request, token string) {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
	}
}

func checkStatus(res *http.Response) error {
	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return nil
	case res.StatusCode == http.StatusNotFound,
		res.StatusCode == http.StatusUnprocessableEntity:
		// 422 happens when an id hits the slug route or vice versa
		return core.ErrNotFound
	case res.StatusCode == http.StatusUnauthorized,
		res.StatusCode == http.StatusForbidden:
		return ErrUnauthenticated
	default:
		return &UpstreamError{StatusCode: res.StatusCode}
	}
}
