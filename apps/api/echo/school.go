package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulepay/shulepay/core/school"
)

type schoolApi struct {
	deps ServerDeps
}

func registerSchoolAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, deps ServerDeps) {
	api := schoolApi{deps: deps}

	sg := g.Group("/schools")

	// un-authed endpoints
	sg.POST("/register", api.register)

	// authed endpoints
	sg.GET("", api.query, jwt, sess)
}

// Handlers

func (api *schoolApi) register(ctx echo.Context) error {
	var data RegisterSchoolRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegisterSchoolRequest")
	}

	sch, err := api.deps.Svcs.School.Register(ctx.Request().Context(), data.NewSchool, data.ActivationCode)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *schoolApi) query(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	schools := sess.Schools()
	if schools == nil {
		schools = []school.School{}
	}
	return ctx.JSON(http.StatusOK, schools)
}

type RegisterSchoolRequest struct {
	school.NewSchool
	ActivationCode string `json:"activation_code"`
}
