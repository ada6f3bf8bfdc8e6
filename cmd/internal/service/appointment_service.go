package service

import (
	"errors"
	"strconv"

	"turnos/cmd/internal/dispatch"
	"turnos/cmd/internal/domain/entity"
	"turnos/cmd/internal/utils"
	"turnos/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	Create(appt *entity.Appointment) error
	Update(appt *entity.Appointment) error
	DeleteByID(id int) (bool, error)
	FindByID(id int) (*entity.Appointment, error)
	FindAll(date, status, email string) ([]*entity.Appointment, error)
	IsAvailable(date, hour string, excludeID int) (bool, error)
}

// requiredFields are the client-supplied fields every booking needs.
var requiredFields = []string{"name", "email", "phone", "date", "time", "service"}

type appointmentInput struct {
	Name    string `validate:"required,max=120"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"required,max=40"`
	Date    string `validate:"required,dateformat"`
	Time    string `validate:"required,timeformat"`
	Service string `validate:"required,max=120"`
	Status  string `validate:"omitempty,bookstatus"`
	Notes   string `validate:"max=500"`
}

type AppointmentResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Service   string `json:"service"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	Validate        *validator.Validate
}

func NewAppointmentService(apptRepo AppointmentRepository, validate *validator.Validate) *DefaultAppointmentService {
	return &DefaultAppointmentService{AppointmentRepo: apptRepo, Validate: validate}
}

func (a *DefaultAppointmentService) List(date, status, email string) ([]*AppointmentResponse, apierror.ErrorResponse) {
	appts, err := a.AppointmentRepo.FindAll(date, status, email)
	if err != nil {
		log.Errorf("failed to list appointments: %v", err)
		return nil, apierror.InternalServerError
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

func (a *DefaultAppointmentService) Get(id int) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}
	return toAppointmentResponse(appt), nil
}

func (a *DefaultAppointmentService) Create(fields dispatch.FieldMap) (*AppointmentResponse, apierror.ErrorResponse) {
	var missing []string
	for _, f := range requiredFields {
		if fields.Str(f) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, apierror.NewMissingFieldsError(missing)
	}

	in := inputFromFields(fields, appointmentInput{})
	if err := a.Validate.Struct(&in); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	available, err := a.AppointmentRepo.IsAvailable(in.Date, in.Time, 0)
	if err != nil {
		log.Errorf("failed to check slot %s %s: %v", in.Date, in.Time, err)
		return nil, apierror.InternalServerError
	}
	if !available {
		return nil, apierror.SlotUnavailableError
	}

	status := entity.StatusPending
	if in.Status != "" {
		status = entity.Status(in.Status)
	}

	now := utils.NowUTC()
	appt := &entity.Appointment{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Date:      in.Date,
		Time:      in.Time,
		Service:   in.Service,
		Status:    status,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = a.AppointmentRepo.Create(appt)
	if errors.Is(err, entity.ErrSlotTaken) {
		return nil, apierror.SlotUnavailableError
	}
	if err != nil {
		log.Errorf("failed to create appointment: %v", err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appt), nil
}

// Update merges only the submitted fields onto the stored record;
// omitted fields keep their prior values.
func (a *DefaultAppointmentService) Update(fields dispatch.FieldMap) (*AppointmentResponse, apierror.ErrorResponse) {
	id, apierr := parseID(fields)
	if apierr != nil {
		return nil, apierr
	}

	appt, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}

	in := inputFromFields(fields, appointmentInput{
		Name:    appt.Name,
		Email:   appt.Email,
		Phone:   appt.Phone,
		Date:    appt.Date,
		Time:    appt.Time,
		Service: appt.Service,
		Status:  string(appt.Status),
		Notes:   appt.Notes,
	})
	if err := a.Validate.Struct(&in); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	// Cancelled appointments hold no slot, so a record staying
	// cancelled is exempt from the availability check.
	if (fields.Has("date") || fields.Has("time")) && in.Status != string(entity.StatusCancelled) {
		available, err := a.AppointmentRepo.IsAvailable(in.Date, in.Time, id)
		if err != nil {
			log.Errorf("failed to check slot %s %s: %v", in.Date, in.Time, err)
			return nil, apierror.InternalServerError
		}
		if !available {
			return nil, apierror.SlotUnavailableError
		}
	}

	appt.Name = in.Name
	appt.Email = in.Email
	appt.Phone = in.Phone
	appt.Date = in.Date
	appt.Time = in.Time
	appt.Service = in.Service
	appt.Status = entity.Status(in.Status)
	appt.Notes = in.Notes
	appt.UpdatedAt = utils.NowUTC()

	err = a.AppointmentRepo.Update(appt)
	if errors.Is(err, entity.ErrSlotTaken) {
		return nil, apierror.SlotUnavailableError
	}
	if err != nil {
		log.Errorf("failed to update appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appt), nil
}

// Delete removes the identified appointment and reports whether a row
// was removed. A second delete of the same id yields false, not an
// error.
func (a *DefaultAppointmentService) Delete(fields dispatch.FieldMap) (bool, apierror.ErrorResponse) {
	id, apierr := parseID(fields)
	if apierr != nil {
		return false, apierr
	}

	removed, err := a.AppointmentRepo.DeleteByID(id)
	if errors.Is(err, entity.ErrInvalidID) {
		return false, apierror.InvalidIDError
	}
	if err != nil {
		log.Errorf("failed to delete appointment %d: %v", id, err)
		return false, apierror.InternalServerError
	}
	return removed, nil
}

func parseID(fields dispatch.FieldMap) (int, apierror.ErrorResponse) {
	raw := fields.Str("id")
	if raw == "" {
		return 0, apierror.MissingIDError
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apierror.InvalidIDError
	}
	return id, nil
}

// inputFromFields overlays the submitted fields onto base. Only keys
// actually present in the map overwrite base values.
func inputFromFields(fields dispatch.FieldMap, base appointmentInput) appointmentInput {
	if fields.Has("name") {
		base.Name = fields.Str("name")
	}
	if fields.Has("email") {
		base.Email = fields.Str("email")
	}
	if fields.Has("phone") {
		base.Phone = fields.Str("phone")
	}
	if fields.Has("date") {
		base.Date = fields.Str("date")
	}
	if fields.Has("time") {
		base.Time = fields.Str("time")
	}
	if fields.Has("service") {
		base.Service = fields.Str("service")
	}
	if fields.Has("status") {
		base.Status = fields.Str("status")
	}
	if fields.Has("notes") {
		base.Notes = fields.Str("notes")
	}
	return base
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:        appt.ID,
		Name:      appt.Name,
		Email:     appt.Email,
		Phone:     appt.Phone,
		Date:      appt.Date,
		Time:      appt.Time,
		Service:   appt.Service,
		Status:    string(appt.Status),
		Notes:     appt.Notes,
		CreatedAt: utils.FormatEpoch(appt.CreatedAt),
		UpdatedAt: utils.FormatEpoch(appt.UpdatedAt),
	}
}
