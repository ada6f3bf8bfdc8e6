package repository

import (
	"errors"
	"turnos/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

// Create inserts the appointment, re-checking slot availability inside
// the same transaction so two concurrent bookings cannot both pass the
// check. Returns entity.ErrSlotTaken on conflict.
func (a *DefaultAppointmentRepository) Create(appt *entity.Appointment) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		taken, err := slotTaken(tx, appt.Date, appt.Time, 0)
		if err != nil {
			return err
		}
		if taken {
			return entity.ErrSlotTaken
		}
		return tx.Create(appt).Error
	})
}

// Update persists the merged appointment, re-checking the slot while
// excluding the record's own id so keeping the current date and time
// never conflicts with itself. A record staying cancelled holds no
// slot, so it is saved without the check; reactivating one to any
// other status contends for the slot again.
func (a *DefaultAppointmentRepository) Update(appt *entity.Appointment) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		if appt.Status != entity.StatusCancelled {
			taken, err := slotTaken(tx, appt.Date, appt.Time, appt.ID)
			if err != nil {
				return err
			}
			if taken {
				return entity.ErrSlotTaken
			}
		}
		return tx.Save(appt).Error
	})
}

func (a *DefaultAppointmentRepository) FindByID(id int) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.First(&appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	appt.Status = entity.ParseStatus(string(appt.Status))
	return &appt, nil
}

// FindAll returns appointments matching the given exact-match filters.
// An empty filter imposes no constraint. Ordered by date, then time.
func (a *DefaultAppointmentRepository) FindAll(date, status, email string) ([]*entity.Appointment, error) {
	q := a.db.Model(&entity.Appointment{})
	if date != "" {
		q = q.Where("date = ?", date)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if email != "" {
		q = q.Where("email = ?", email)
	}

	var appts []*entity.Appointment
	err := q.Order("date asc, time asc").Find(&appts).Error
	if err != nil {
		return nil, err
	}
	for _, appt := range appts {
		appt.Status = entity.ParseStatus(string(appt.Status))
	}
	return appts, nil
}

// DeleteByID removes the row and reports whether one was actually
// deleted. Deleting an id that no longer exists is not an error.
func (a *DefaultAppointmentRepository) DeleteByID(id int) (bool, error) {
	if id <= 0 {
		return false, entity.ErrInvalidID
	}
	res := a.db.Delete(&entity.Appointment{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// IsAvailable reports whether the (date, time) slot is free of
// non-cancelled appointments, ignoring the record identified by
// excludeID when it is positive. Cancelled appointments never block.
func (a *DefaultAppointmentRepository) IsAvailable(date, hour string, excludeID int) (bool, error) {
	taken, err := slotTaken(a.db, date, hour, excludeID)
	return !taken, err
}

func slotTaken(tx *gorm.DB, date, hour string, excludeID int) (bool, error) {
	q := tx.Model(&entity.Appointment{}).
		Where("date = ?", date).
		Where("time = ?", hour).
		Where("status != ?", entity.StatusCancelled)
	if excludeID > 0 {
		q = q.Where("id != ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
