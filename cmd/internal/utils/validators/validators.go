package validators

import (
	"time"
	"turnos/cmd/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

// Register wires the custom booking rules onto a validator instance.
func Register(validate *validator.Validate) {
	_ = validate.RegisterValidation("dateformat", IsBookingDate)
	_ = validate.RegisterValidation("timeformat", IsBookingTime)
	_ = validate.RegisterValidation("bookstatus", IsBookingStatus)
}

// IsBookingDate accepts calendar dates in YYYY-MM-DD form.
func IsBookingDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// IsBookingTime accepts times of day in 24h HH:mm form.
func IsBookingTime(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

func IsBookingStatus(fl validator.FieldLevel) bool {
	return entity.ValidStatus(fl.Field().String())
}
