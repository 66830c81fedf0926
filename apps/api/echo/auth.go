package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tupine/lifegear/core"
)

const (
	jwtContextKey = "sessionToken"
	audience      = "Students"
)

// Claims represents the authorization claims transmitted via the session JWT.
// The campus access token rides along so every request can be replayed
// upstream without server-side token storage.
type Claims struct {
	jwt.StandardClaims
	SessionID   string `json:"sid"`
	Username    string `json:"username,omitempty"`
	CampusToken string `json:"ctk,omitempty"`
}

// newAppJWTConfig is the JWT auth middleware config; the token is read from
// the session cookie, never from headers.
func newAppJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
		TokenLookup:   "cookie:" + conf.Server.SessionCookieName,
	}
}

func GetSessionClaims(conf *core.Config, sessionID, username, campusToken string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   sessionID,
			Audience:  audience,
			ExpiresAt: now.Add(conf.Server.SessionExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		SessionID:   sessionID,
		Username:    username,
		CampusToken: campusToken,
	}
}

// GenerateToken generates a signed JWT token string representing the session Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errSigningToken
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func newSessionCookie(conf *core.Config, token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     conf.Server.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !conf.Debug,
	}
}

func expiredSessionCookie(conf *core.Config) *http.Cookie {
	ck := newSessionCookie(conf, "", time.Unix(0, 0))
	ck.MaxAge = -1
	return ck
}
