package echoapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/enlift/backend/core"
	"github.com/enlift/backend/core/student"
)

const dateParamLayout = "2006-01-02"

type adminApi struct {
	svc      *student.AdminService
	sessions *sessionManager
	validate *validator.Validate
}

func registerAdminAPI(g *echo.Group, sessions *sessionManager, svc *student.AdminService, validate *validator.Validate) {
	api := adminApi{svc: svc, sessions: sessions, validate: validate}

	ag := g.Group("/admin")
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout, requireAdmin(sessions))

	// the review workflow is only reachable while logged in
	sg := ag.Group("/students", requireAdmin(sessions))
	sg.GET("", api.list)
	sg.GET("/stats", api.stats)
	sg.PUT("", api.saveEdits)
	sg.GET("/export", api.exportCSV)
	sg.DELETE("", api.clearAll)
}

// Handlers

func (api *adminApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sessionID, gate := api.sessions.gateFor(ctx.Request().Header.Get(sessionHeader))
	ctx.Response().Header().Set(sessionHeader, sessionID)

	res := gate.Login(data.Username, data.Password)
	if !res.OK {
		// denied is the expected negative branch, reported with the
		// remaining-attempts count
		return ctx.JSON(http.StatusBadRequest, LoginDeniedResponse{
			Error:        res.Message,
			AttemptsLeft: res.AttemptsLeft,
		})
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: api.sessions.issueToken(sessionID, gate)})
}

func (api *adminApi) logout(ctx echo.Context) error {
	api.sessions.drop(tokenFromRequest(ctx))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *adminApi) list(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	if raw := ctx.QueryParam("date"); raw != "" {
		onDate, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "expected format " + dateParamLayout})
		}
		filter.OnDate = &onDate
	}

	students, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	students = api.svc.Filter(students, *filter)
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *adminApi) stats(ctx echo.Context) error {
	students, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, StatsResponse{
		Stats:              api.svc.Stats(students),
		CourseDistribution: api.svc.CourseDistribution(students),
		StatusDistribution: api.svc.StatusDistribution(students),
		WeeklyTrend:        api.svc.WeeklyTrend(students),
		AgeDistribution:    api.svc.AgeDistribution(students),
	})
}

func (api *adminApi) saveEdits(ctx echo.Context) error {
	var edits []student.Edit
	if err := ctx.Bind(&edits); err != nil {
		return errors.Wrap(err, "binding to []Edit")
	}

	if err := api.svc.ApplyEdits(edits); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Changes saved successfully!"})
}

func (api *adminApi) exportCSV(ctx echo.Context) error {
	students, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	data, err := api.svc.ExportCSV(students)
	if err != nil {
		return errors.Wrap(err, "exporting students")
	}

	filename := fmt.Sprintf("enlift_students_%s.csv", time.Now().UTC().Format("20060102_150405"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=`+filename)
	return ctx.Blob(http.StatusOK, "text/csv", data)
}

func (api *adminApi) clearAll(ctx echo.Context) error {
	if err := api.svc.ClearAll(ctx.QueryParam("confirm")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	LoginDeniedResponse struct {
		Error        string `json:"error"`
		AttemptsLeft int    `json:"attempts_left"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	StatsResponse struct {
		Stats              student.Stats   `json:"stats"`
		CourseDistribution []student.Count `json:"course_distribution"`
		StatusDistribution []student.Count `json:"status_distribution"`
		WeeklyTrend        []student.Count `json:"weekly_trend"`
		AgeDistribution    []student.Count `json:"age_distribution"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username)
	return validate.Struct(lr)
}
