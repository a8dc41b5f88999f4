package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/enlift/backend/core/contact"
)

type contactApi struct {
	svc *contact.Service
}

func registerContactAPI(g *echo.Group, svc *contact.Service) {
	api := contactApi{svc: svc}

	cg := g.Group("/contact")
	cg.POST("", api.submit)
	cg.GET("/departments", api.queryDepartments)
}

func (api *contactApi) submit(ctx echo.Context) error {
	var data contact.NewInquiry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInquiry")
	}

	if _, err := api.svc.Submit(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Message sent successfully! We'll respond within 24 hours."})
}

func (api *contactApi) queryDepartments(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, contact.Departments)
}
