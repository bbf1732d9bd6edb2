package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulepay/shulepay/core/parent"
)

type parentApi struct {
	deps ServerDeps
}

func registerParentAPI(g *echo.Group, deps ServerDeps) {
	api := parentApi{deps: deps}

	pg := g.Group("/parents")

	// un-authed endpoints
	pg.POST("/register", api.register)
}

// Handlers

func (api *parentApi) register(ctx echo.Context) error {
	var data parent.NewParent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewParent")
	}

	prt, err := api.deps.Svcs.Parent.Register(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, prt)
}
