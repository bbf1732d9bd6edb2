package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulepay/shulepay/core/tenant"
)

type tenantApi struct{}

func registerTenantAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc) {
	api := tenantApi{}

	tg := g.Group("", jwt, sess, schoolAdminMiddleware())

	tg.GET("/students", api.queryStudents)
	tg.POST("/students", api.addStudent)
	tg.GET("/students/unpaid", api.unpaidStudents)

	tg.GET("/payments", api.queryPayments)
	tg.POST("/payments", api.recordPayment)

	tg.GET("/classes", api.queryClasses)
	tg.POST("/classes", api.addClass)
	tg.PUT("/classes", api.updateClass)
}

// Handlers

func (api *tenantApi) queryStudents(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	students := sess.Students()
	if students == nil {
		students = []tenant.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *tenantApi) addStudent(ctx echo.Context) error {
	var data tenant.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	std, err := sess.AddStudent(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *tenantApi) unpaidStudents(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	unpaid, err := sess.UnpaidStudents(ctx.QueryParam("class"), ctx.QueryParam("id"))
	if err != nil {
		return err
	}
	if unpaid == nil {
		unpaid = []tenant.Student{}
	}
	return ctx.JSON(http.StatusOK, unpaid)
}

func (api *tenantApi) queryPayments(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	payments := sess.Payments()
	if payments == nil {
		payments = []tenant.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *tenantApi) recordPayment(ctx echo.Context) error {
	var data tenant.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}

	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	pmt, err := sess.RecordPayment(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, pmt)
}

func (api *tenantApi) queryClasses(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	classes := sess.Classes()
	if classes == nil {
		classes = []tenant.ClassFee{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *tenantApi) addClass(ctx echo.Context) error {
	var data tenant.NewClassFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassFee")
	}

	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	cf, err := sess.AddClass(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cf)
}

func (api *tenantApi) updateClass(ctx echo.Context) error {
	var data tenant.UpdateClassFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClassFee")
	}

	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if err := sess.UpdateClass(ctx.Request().Context(), data); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
