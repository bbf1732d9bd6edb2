package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/session"
)

type authApi struct {
	deps ServerDeps
}

func registerAuthAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, deps ServerDeps) {
	api := authApi{deps: deps}

	ag := g.Group("/auth")

	// un-authed endpoints
	// TODO: rate limit the login endpoints
	ag.POST("/login", api.login)
	ag.POST("/admin-login", api.adminLogin)
	ag.POST("/parent-login", api.parentLogin)

	// authed endpoints
	ag.POST("/logout", api.logout, jwt, sess)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sess := session.New(api.deps.Svcs)
	if err := sess.Login(ctx.Request().Context(), data.SchoolName, data.Password); err != nil {
		return err
	}
	return api.respondWithToken(ctx, sess)
}

func (api *authApi) adminLogin(ctx echo.Context) error {
	var data AdminLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AdminLoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sess := session.New(api.deps.Svcs)
	if err := sess.AdminLogin(ctx.Request().Context(), data.Password); err != nil {
		return err
	}
	return api.respondWithToken(ctx, sess)
}

func (api *authApi) parentLogin(ctx echo.Context) error {
	var data ParentLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ParentLoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sess := session.New(api.deps.Svcs)
	if err := sess.ParentLogin(ctx.Request().Context(), data.Email, data.Password); err != nil {
		return err
	}
	return api.respondWithToken(ctx, sess)
}

func (api *authApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	sess.Logout()
	api.deps.Store.Delete(claims.SessionID)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) respondWithToken(ctx echo.Context, sess *session.Session) error {
	id := api.deps.Store.Put(sess)
	claims := GetSessionClaims(api.deps.Conf, id, sess.Current())
	token, err := GenerateToken(api.deps.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Role: claims.Role})
}

type (
	LoginRequest struct {
		SchoolName string `json:"school_name" validate:"required"`
		Password   string `json:"password" validate:"required"`
	}

	AdminLoginRequest struct {
		Password string `json:"password" validate:"required"`
	}

	ParentLoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.SchoolName = core.CleanString(lr.SchoolName)
	return core.Validate.Struct(lr)
}

func (ar *AdminLoginRequest) Validate() error {
	return core.Validate.Struct(ar)
}

func (pr *ParentLoginRequest) Validate() error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return core.Validate.Struct(pr)
}
