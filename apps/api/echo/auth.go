package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/session"
)

const (
	contextTokenKey   = "sessionToken"
	contextSessionKey = "session"
)

// Claims represents the authorization claims transmitted via a JWT. The
// session ID resolves the server-side session holding the principal and its
// cached tenant data.
type Claims struct {
	jwt.StandardClaims
	SessionID  string `json:"sid"`
	Role       string `json:"role"`
	SchoolName string `json:"school,omitempty"`
	ParentID   string `json:"parent_id,omitempty"`
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// GetSessionClaims builds the claims for a freshly authenticated session.
func GetSessionClaims(conf *core.Config, sessID string, usr session.User) *Claims {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   sessID,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		SessionID: sessID,
		Role:      usr.RoleName(),
	}
	switch u := usr.(type) {
	case session.SchoolAdmin:
		claims.SchoolName = u.SchoolName
	case session.ParentUser:
		claims.ParentID = u.ParentID
	}
	return claims
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextSession(ctx echo.Context) (*session.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(*session.Session); ok {
		return sess, nil
	}
	return nil, errUnauthorized
}
