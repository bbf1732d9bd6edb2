package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/activation"
)

type adminApi struct{}

func registerAdminAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc) {
	api := adminApi{}

	cg := g.Group("/admin/activation-codes", jwt, sess, systemAdminMiddleware())
	cg.POST("", api.generate)
	cg.GET("", api.query)
}

// Handlers

func (api *adminApi) generate(ctx echo.Context) error {
	var data GenerateCodeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateCodeRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	var code activation.Code
	if data.Email != "" {
		code, err = sess.GenerateActivationCodeFor(ctx.Request().Context(), mail.Address{Address: data.Email})
	} else {
		code, err = sess.GenerateActivationCode(ctx.Request().Context())
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, code)
}

func (api *adminApi) query(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	codes := sess.GeneratedCodes()
	if codes == nil {
		codes = []activation.Code{}
	}
	return ctx.JSON(http.StatusOK, codes)
}

// GenerateCodeRequest optionally emails the new code to a school contact.
type GenerateCodeRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

func (gr *GenerateCodeRequest) Validate() error {
	gr.Email = core.CleanString(gr.Email, true /* lower */)
	return core.Validate.Struct(gr)
}
