package service

import (
	"net/http"
	"sort"
	"strings"
	"testing"

	"turnos/cmd/internal/dispatch"
	"turnos/cmd/internal/domain/entity"
	"turnos/cmd/internal/utils/apierror"
	"turnos/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
)

type fakeRepo struct {
	appts  map[int]*entity.Appointment
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appts: map[int]*entity.Appointment{}}
}

func (f *fakeRepo) slotTaken(date, hour string, excludeID int) bool {
	for _, appt := range f.appts {
		if appt.ID == excludeID || appt.Status == entity.StatusCancelled {
			continue
		}
		if appt.Date == date && appt.Time == hour {
			return true
		}
	}
	return false
}

func (f *fakeRepo) Create(appt *entity.Appointment) error {
	if f.slotTaken(appt.Date, appt.Time, 0) {
		return entity.ErrSlotTaken
	}
	f.nextID++
	appt.ID = f.nextID
	clone := *appt
	f.appts[appt.ID] = &clone
	return nil
}

func (f *fakeRepo) Update(appt *entity.Appointment) error {
	if appt.Status != entity.StatusCancelled && f.slotTaken(appt.Date, appt.Time, appt.ID) {
		return entity.ErrSlotTaken
	}
	clone := *appt
	f.appts[appt.ID] = &clone
	return nil
}

func (f *fakeRepo) DeleteByID(id int) (bool, error) {
	if id <= 0 {
		return false, entity.ErrInvalidID
	}
	if _, ok := f.appts[id]; !ok {
		return false, nil
	}
	delete(f.appts, id)
	return true, nil
}

func (f *fakeRepo) FindByID(id int) (*entity.Appointment, error) {
	appt, ok := f.appts[id]
	if !ok {
		return nil, nil
	}
	clone := *appt
	return &clone, nil
}

func (f *fakeRepo) FindAll(date, status, email string) ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, appt := range f.appts {
		if date != "" && appt.Date != date {
			continue
		}
		if status != "" && string(appt.Status) != status {
			continue
		}
		if email != "" && appt.Email != email {
			continue
		}
		clone := *appt
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (f *fakeRepo) IsAvailable(date, hour string, excludeID int) (bool, error) {
	return !f.slotTaken(date, hour, excludeID), nil
}

func newTestService() (*DefaultAppointmentService, *fakeRepo) {
	validate := validator.New()
	validators.Register(validate)
	repo := newFakeRepo()
	return NewAppointmentService(repo, validate), repo
}

func validFields() dispatch.FieldMap {
	return dispatch.FieldMap{
		"name":    "Ana",
		"email":   "a@b.com",
		"phone":   "123",
		"date":    "2025-03-10",
		"time":    "09:00",
		"service": "Consult",
	}
}

func TestCreate_RoundTripDefaults(t *testing.T) {
	svc, _ := newTestService()

	created, apierr := svc.Create(validFields())
	if apierr != nil {
		t.Fatalf("unexpected error: %+v", apierr)
	}
	if created.ID == 0 {
		t.Error("expected an assigned id")
	}

	fetched, apierr := svc.Get(created.ID)
	if apierr != nil {
		t.Fatalf("unexpected error: %+v", apierr)
	}
	if fetched.Status != "pending" {
		t.Errorf("expected default status pending, got %q", fetched.Status)
	}
	if fetched.Notes != "" {
		t.Errorf("expected empty notes, got %q", fetched.Notes)
	}
	if fetched.Name != "Ana" || fetched.Email != "a@b.com" || fetched.Phone != "123" ||
		fetched.Date != "2025-03-10" || fetched.Time != "09:00" || fetched.Service != "Consult" {
		t.Errorf("submitted fields changed: %+v", fetched)
	}
	if fetched.CreatedAt == "" || fetched.UpdatedAt == "" {
		t.Error("expected server-assigned timestamps")
	}
}

func TestCreate_MissingFieldsAggregated(t *testing.T) {
	svc, _ := newTestService()

	_, apierr := svc.Create(dispatch.FieldMap{"name": "X"})
	if apierr == nil {
		t.Fatal("expected a validation error")
	}
	if apierr.Code() != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apierr.Code())
	}

	simple, ok := apierr.(*apierror.Simple)
	if !ok {
		t.Fatalf("unexpected error type %T", apierr)
	}
	for _, f := range []string{"email", "phone", "date", "time", "service"} {
		if !strings.Contains(simple.Message, f) {
			t.Errorf("message should list missing field %q: %s", f, simple.Message)
		}
	}
}

func TestCreate_SlotConflict(t *testing.T) {
	svc, _ := newTestService()

	if _, apierr := svc.Create(validFields()); apierr != nil {
		t.Fatalf("first create failed: %+v", apierr)
	}

	fields := validFields()
	fields["email"] = "other@b.com"
	_, apierr := svc.Create(fields)
	if apierr == nil {
		t.Fatal("expected slot conflict")
	}
	if apierr.Code() != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apierr.Code())
	}
}

func TestCreate_CancellationFreesSlot(t *testing.T) {
	svc, _ := newTestService()

	created, apierr := svc.Create(validFields())
	if apierr != nil {
		t.Fatalf("create failed: %+v", apierr)
	}

	_, apierr = svc.Update(dispatch.FieldMap{"id": created.ID, "status": "cancelled"})
	if apierr != nil {
		t.Fatalf("cancel failed: %+v", apierr)
	}

	fields := validFields()
	fields["name"] = "Bea"
	if _, apierr = svc.Create(fields); apierr != nil {
		t.Fatalf("slot should be free after cancellation: %+v", apierr)
	}
}

func TestCreate_InvalidEmail(t *testing.T) {
	svc, _ := newTestService()

	fields := validFields()
	fields["email"] = "not-an-email"
	_, apierr := svc.Create(fields)
	if apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %+v", apierr)
	}
}

func TestCreate_InvalidDateFormat(t *testing.T) {
	svc, _ := newTestService()

	fields := validFields()
	fields["date"] = "10/03/2025"
	_, apierr := svc.Create(fields)
	if apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %+v", apierr)
	}
}

func TestUpdate_MergeKeepsOmittedFields(t *testing.T) {
	svc, _ := newTestService()

	created, _ := svc.Create(validFields())
	_, apierr := svc.Update(dispatch.FieldMap{"id": created.ID, "phone": "456"})
	if apierr != nil {
		t.Fatalf("update failed: %+v", apierr)
	}

	fetched, _ := svc.Get(created.ID)
	if fetched.Phone != "456" {
		t.Errorf("expected updated phone, got %q", fetched.Phone)
	}
	if fetched.Name != "Ana" || fetched.Email != "a@b.com" || fetched.Service != "Consult" {
		t.Errorf("omitted fields must keep prior values: %+v", fetched)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, apierr := svc.Update(dispatch.FieldMap{"id": "999", "phone": "456"})
	if apierr == nil || apierr.Code() != http.StatusNotFound {
		t.Fatalf("expected 404, got %+v", apierr)
	}
}

func TestUpdate_InvalidStatusRejected(t *testing.T) {
	svc, _ := newTestService()

	created, _ := svc.Create(validFields())
	_, apierr := svc.Update(dispatch.FieldMap{"id": created.ID, "status": "archived"})
	if apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("unknown status from a client must be rejected, got %+v", apierr)
	}
}

func TestUpdate_SelfSlotNeverConflicts(t *testing.T) {
	svc, _ := newTestService()

	created, _ := svc.Create(validFields())
	_, apierr := svc.Update(dispatch.FieldMap{
		"id":   created.ID,
		"date": "2025-03-10",
		"time": "09:00",
	})
	if apierr != nil {
		t.Fatalf("updating to own slot must succeed: %+v", apierr)
	}
}

func TestUpdate_CancelledRowEditableAfterRebook(t *testing.T) {
	svc, _ := newTestService()

	first, apierr := svc.Create(validFields())
	if apierr != nil {
		t.Fatalf("create failed: %+v", apierr)
	}
	if _, apierr = svc.Update(dispatch.FieldMap{"id": first.ID, "status": "cancelled"}); apierr != nil {
		t.Fatalf("cancel failed: %+v", apierr)
	}

	fields := validFields()
	fields["name"] = "Bea"
	if _, apierr = svc.Create(fields); apierr != nil {
		t.Fatalf("rebooking the freed slot failed: %+v", apierr)
	}

	_, apierr = svc.Update(dispatch.FieldMap{"id": first.ID, "notes": "client called to cancel"})
	if apierr != nil {
		t.Fatalf("notes-only update of a cancelled appointment must succeed: %+v", apierr)
	}

	_, apierr = svc.Update(dispatch.FieldMap{"id": first.ID, "status": "pending"})
	if apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("reactivating into an occupied slot should conflict, got %+v", apierr)
	}
}

func TestUpdate_SlotConflictWithOther(t *testing.T) {
	svc, _ := newTestService()

	svc.Create(validFields())

	fields := validFields()
	fields["time"] = "10:00"
	second, _ := svc.Create(fields)

	_, apierr := svc.Update(dispatch.FieldMap{"id": second.ID, "time": "09:00"})
	if apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("expected slot conflict, got %+v", apierr)
	}
}

func TestDelete_MissingAndInvalidID(t *testing.T) {
	svc, _ := newTestService()

	if _, apierr := svc.Delete(dispatch.FieldMap{}); apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Errorf("expected 400 for missing id, got %+v", apierr)
	}
	if _, apierr := svc.Delete(dispatch.FieldMap{"id": "abc"}); apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %+v", apierr)
	}
	if _, apierr := svc.Delete(dispatch.FieldMap{"id": "-2"}); apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Errorf("expected 400 for negative id, got %+v", apierr)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	svc, _ := newTestService()

	created, _ := svc.Create(validFields())

	removed, apierr := svc.Delete(dispatch.FieldMap{"id": created.ID})
	if apierr != nil || !removed {
		t.Fatalf("first delete should remove the row: removed=%v err=%+v", removed, apierr)
	}

	removed, apierr = svc.Delete(dispatch.FieldMap{"id": created.ID})
	if apierr != nil {
		t.Fatalf("second delete must not error: %+v", apierr)
	}
	if removed {
		t.Error("second delete must report false")
	}
}

func TestList_FilterByDateOrderedByTime(t *testing.T) {
	svc, _ := newTestService()

	for _, in := range []struct{ date, time string }{
		{"2025-03-11", "09:00"},
		{"2025-03-10", "11:00"},
		{"2025-03-10", "09:30"},
	} {
		fields := validFields()
		fields["date"] = in.date
		fields["time"] = in.time
		if _, apierr := svc.Create(fields); apierr != nil {
			t.Fatalf("create failed: %+v", apierr)
		}
	}

	appts, apierr := svc.List("2025-03-10", "", "")
	if apierr != nil {
		t.Fatalf("list failed: %+v", apierr)
	}
	if len(appts) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(appts))
	}
	if appts[0].Time != "09:30" || appts[1].Time != "11:00" {
		t.Errorf("expected time-ordered results, got %s then %s", appts[0].Time, appts[1].Time)
	}
}
