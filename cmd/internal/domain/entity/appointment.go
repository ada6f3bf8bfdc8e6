package entity

import "errors"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var (
	// ErrSlotTaken is returned when another non-cancelled appointment
	// already occupies the requested (date, time) slot.
	ErrSlotTaken = errors.New("slot already booked")

	ErrInvalidID = errors.New("invalid appointment id")
)

// ParseStatus maps a stored status value onto the enum. Unknown values
// fall back to pending so a hand-edited row cannot break reads; values
// submitted by clients are validated separately and never coerced.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(s)
	}
	return StatusPending
}

func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type Appointment struct {
	ID        int    `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null"`
	Phone     string `gorm:"not null"`
	Date      string `gorm:"not null;index:idx_slot"` // YYYY-MM-DD
	Time      string `gorm:"not null;index:idx_slot"` // HH:mm
	Service   string `gorm:"not null"`
	Status    Status `gorm:"not null;default:pending"`
	Notes     string
	CreatedAt int64 `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:milli"`
}
