package routes

import (
	"net/http"

	"turnos/cmd/internal/dispatch"
	"turnos/cmd/internal/service"
	"turnos/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AppointmentService interface {
	List(date, status, email string) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	Get(id int) (*service.AppointmentResponse, apierror.ErrorResponse)
	Create(fields dispatch.FieldMap) (*service.AppointmentResponse, apierror.ErrorResponse)
	Update(fields dispatch.FieldMap) (*service.AppointmentResponse, apierror.ErrorResponse)
	Delete(fields dispatch.FieldMap) (bool, apierror.ErrorResponse)
}

// envelope is the success/diagnostic response shape; failures are
// apierror values serialized directly.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	ID      int    `json:"id,omitempty"`
	Path    string `json:"path,omitempty"`
	Method  string `json:"method,omitempty"`
}

type DefaultAppointmentRoute struct {
	AppointmentService AppointmentService
	ViewFile           string
}

func NewAppointmentDefault(apptService AppointmentService) *DefaultAppointmentRoute {
	return &DefaultAppointmentRoute{
		AppointmentService: apptService,
		ViewFile:           "public/index.html",
	}
}

// Dispatch is the single entry point for the API surface. It resolves
// the canonical field map, classifies the request into one operation
// and executes it.
func (a *DefaultAppointmentRoute) Dispatch(c echo.Context) error {
	req := c.Request()

	var fields dispatch.FieldMap
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		fields = dispatch.Fields(c)
	}

	op := dispatch.Classify(req.Method, req.URL.Path, c.QueryParams(), fields)

	switch op.Kind {
	case dispatch.KindIndex:
		return c.File(a.ViewFile)
	case dispatch.KindList:
		return a.list(c, op)
	case dispatch.KindGetOne:
		return a.getOne(c, op)
	case dispatch.KindCreate:
		return a.create(c, op)
	case dispatch.KindUpdate:
		return a.update(c, op)
	case dispatch.KindDelete:
		return a.delete(c, op)
	}
	return a.notFound(c, op.Path, op.Method)
}

// NotFound answers any route the dispatcher was never mounted on.
func (a *DefaultAppointmentRoute) NotFound(c echo.Context) error {
	return a.notFound(c, c.Request().URL.Path, c.Request().Method)
}

func (a *DefaultAppointmentRoute) list(c echo.Context, op dispatch.Operation) error {
	appts, apierr := a.AppointmentService.List(op.Filters.Date, op.Filters.Status, op.Filters.Email)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &envelope{Success: true, Data: appts})
}

func (a *DefaultAppointmentRoute) getOne(c echo.Context, op dispatch.Operation) error {
	appt, apierr := a.AppointmentService.Get(op.ID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &envelope{Success: true, Data: appt})
}

func (a *DefaultAppointmentRoute) create(c echo.Context, op dispatch.Operation) error {
	appt, apierr := a.AppointmentService.Create(op.Fields)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, &envelope{
		Success: true,
		Message: "appointment created",
		ID:      appt.ID,
	})
}

func (a *DefaultAppointmentRoute) update(c echo.Context, op dispatch.Operation) error {
	_, apierr := a.AppointmentService.Update(op.Fields)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &envelope{Success: true, Message: "appointment updated"})
}

func (a *DefaultAppointmentRoute) delete(c echo.Context, op dispatch.Operation) error {
	removed, apierr := a.AppointmentService.Delete(op.Fields)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	if !removed {
		// Idempotent at the store: nothing was there to remove.
		return c.JSON(http.StatusNotFound,
			apierror.NewSimple(http.StatusNotFound, "appointment not found or already deleted"))
	}
	return c.JSON(http.StatusOK, &envelope{Success: true, Message: "appointment deleted"})
}

func (a *DefaultAppointmentRoute) notFound(c echo.Context, path, method string) error {
	return c.JSON(http.StatusNotFound, &envelope{
		Success: false,
		Message: "route not found",
		Path:    path,
		Method:  method,
	})
}
