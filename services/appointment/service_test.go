package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	appointmentRepo "medibook/database/repository/appointment"
	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/services"
	"medibook/services/availability"
)

// fakeState is shared in-memory storage backing both fake repositories, so
// the slot index observed by the availability checker is the same one the
// approval transaction writes.
type fakeState struct {
	mu        sync.Mutex
	schedules map[string]models.Schedule
	appts     map[string]models.Appointment
	slots     map[string]models.BookedSlot // key doctorID|date|time
}

func newFakeState() *fakeState {
	return &fakeState{
		schedules: make(map[string]models.Schedule),
		appts:     make(map[string]models.Appointment),
		slots:     make(map[string]models.BookedSlot),
	}
}

func slotKey(doctorID, date, tm string) string {
	return doctorID + "|" + date + "|" + tm
}

type fakeScheduleRepo struct{ st *fakeState }

func (r *fakeScheduleRepo) Create(_ context.Context, s *models.Schedule) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	s.Version = 1
	r.st.schedules[s.ID] = *s
	return nil
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, id string) (*models.Schedule, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.schedules[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &s, nil
}

func (r *fakeScheduleRepo) GetByDoctorAndDate(_ context.Context, doctorID, date string) ([]models.Schedule, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []models.Schedule
	for _, s := range r.st.schedules {
		if s.DoctorID == doctorID && s.Covers(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) ListByDoctor(_ context.Context, doctorID, fromDate, toDate string) ([]models.Schedule, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []models.Schedule
	for _, s := range r.st.schedules {
		if s.DoctorID != doctorID {
			continue
		}
		if fromDate != "" && s.EndDate < fromDate {
			continue
		}
		if toDate != "" && s.StartDate > toDate {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeScheduleRepo) SetLeave(_ context.Context, scheduleID, start, end, reason string, currentVersion int) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.schedules[scheduleID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if s.Version != currentVersion {
		return scheduleRepo.ErrVersionMismatch
	}
	s.IsOnLeave = true
	s.LeaveStartDate = start
	s.LeaveEndDate = end
	s.LeaveReason = reason
	s.Version++
	r.st.schedules[scheduleID] = s
	return nil
}

func (r *fakeScheduleRepo) RegisterSlot(_ context.Context, slot *models.BookedSlot) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	key := slotKey(slot.DoctorID, slot.Date, slot.Time)
	if _, taken := r.st.slots[key]; taken {
		return scheduleRepo.ErrSlotTaken
	}
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	r.st.slots[key] = *slot
	return nil
}

func (r *fakeScheduleRepo) RemoveSlotByAppointment(_ context.Context, doctorID, appointmentID string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for key, slot := range r.st.slots {
		if slot.DoctorID == doctorID && slot.AppointmentID == appointmentID {
			delete(r.st.slots, key)
		}
	}
	return nil
}

func (r *fakeScheduleRepo) SlotsByDoctorAndDate(_ context.Context, doctorID, date string) ([]models.BookedSlot, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []models.BookedSlot
	for _, slot := range r.st.slots {
		if slot.DoctorID == doctorID && slot.Date == date {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) EnsureIndexes() error { return nil }

type fakeApptRepo struct{ st *fakeState }

func (r *fakeApptRepo) Create(_ context.Context, appt *models.Appointment) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	r.st.appts[appt.ID] = *appt
	return nil
}

func (r *fakeApptRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	appt, ok := r.st.appts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &appt, nil
}

func (r *fakeApptRepo) List(_ context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []models.Appointment
	for _, appt := range r.st.appts {
		if filter.UserID != "" && appt.UserID != filter.UserID {
			continue
		}
		if filter.DoctorID != "" && appt.DoctorID != filter.DoctorID {
			continue
		}
		if filter.Status != "" && appt.Status != filter.Status {
			continue
		}
		if filter.Date != "" && appt.Date != filter.Date {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

func (r *fakeApptRepo) Transition(_ context.Context, id string, expected, next models.AppointmentStatus) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	appt, ok := r.st.appts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if appt.Status != expected {
		return appointmentRepo.ErrStatusConflict
	}
	appt.Status = next
	r.st.appts[id] = appt
	return nil
}

func (r *fakeApptRepo) ApproveAndRegisterSlot(_ context.Context, id string, slot *models.BookedSlot) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	appt, ok := r.st.appts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	key := slotKey(slot.DoctorID, slot.Date, slot.Time)
	if _, taken := r.st.slots[key]; taken {
		return appointmentRepo.ErrSlotTaken
	}
	if appt.Status != models.AppointmentPending {
		return appointmentRepo.ErrStatusConflict
	}
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	slot.AppointmentID = id
	r.st.slots[key] = *slot
	appt.Status = models.AppointmentApproved
	r.st.appts[id] = appt
	return nil
}

func (r *fakeApptRepo) CancelApprovedAndRemoveSlot(_ context.Context, id, doctorID string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	appt, ok := r.st.appts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if appt.Status != models.AppointmentApproved {
		return appointmentRepo.ErrStatusConflict
	}
	appt.Status = models.AppointmentCancelled
	r.st.appts[id] = appt
	for key, slot := range r.st.slots {
		if slot.DoctorID == doctorID && slot.AppointmentID == id {
			delete(r.st.slots, key)
		}
	}
	return nil
}

func (r *fakeApptRepo) EnsureIndexes() error { return nil }

type fakeNotifier struct {
	mu            sync.Mutex
	statusChanges int
	reminders     int
}

func (n *fakeNotifier) AppointmentStatusChanged(context.Context, *models.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusChanges++
	return nil
}

func (n *fakeNotifier) PrescriptionIssued(context.Context, *models.Prescription) error { return nil }

func (n *fakeNotifier) ScheduleReminder(context.Context, *models.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders++
	return nil
}

func newTestService() (*DefaultAppointmentService, *fakeState, *fakeNotifier) {
	st := newFakeState()
	schedRepo := &fakeScheduleRepo{st: st}
	notifier := &fakeNotifier{}
	svc := &DefaultAppointmentService{
		Repo:         &fakeApptRepo{st: st},
		Schedules:    schedRepo,
		Availability: &availability.Checker{Schedules: schedRepo},
		Notifier:     notifier,
	}
	return svc, st, notifier
}

func declareTestSchedule(t *testing.T, st *fakeState) models.Schedule {
	t.Helper()
	sched := models.Schedule{
		ID:        uuid.New().String(),
		DoctorID:  "doc-1",
		StartDate: "2025-01-01",
		EndDate:   "2025-01-31",
		StartTime: "09:00",
		EndTime:   "17:00",
		Version:   1,
	}
	st.mu.Lock()
	st.schedules[sched.ID] = sched
	st.mu.Unlock()
	return sched
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var se *services.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected a service error, got %v", err)
	}
	return se.Code
}

var (
	patient = models.Actor{ID: "user-1", Role: models.RoleUser}
	doctor  = models.Actor{ID: "doc-1", Role: models.RoleDoctor}
	admin   = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
)

func validRequest() RequestInput {
	return RequestInput{
		DoctorID:    "doc-1",
		PatientName: "Jane Roe",
		Date:        "2025-01-15",
		Time:        "10:00",
		Type:        models.TypeConsultation,
	}
}

func TestRequestAppointment(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesPending", func(t *testing.T) {
		svc, st, notifier := newTestService()
		declareTestSchedule(t, st)

		appt, err := svc.Request(ctx, patient, validRequest())
		if err != nil {
			t.Fatalf("Request: %v", err)
		}
		if appt.Status != models.AppointmentPending {
			t.Fatalf("expected pending, got %s", appt.Status)
		}
		if appt.UserID != patient.ID {
			t.Fatalf("requester should be recorded, got %s", appt.UserID)
		}
		if notifier.statusChanges != 1 {
			t.Fatalf("expected one status notification, got %d", notifier.statusChanges)
		}
	})

	t.Run("OnlyPatientsRequest", func(t *testing.T) {
		svc, st, _ := newTestService()
		declareTestSchedule(t, st)

		if _, err := svc.Request(ctx, doctor, validRequest()); codeOf(t, err) != services.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("ValidationErrors", func(t *testing.T) {
		svc, st, _ := newTestService()
		declareTestSchedule(t, st)

		bad := validRequest()
		bad.Date = "15-01-2025"
		if _, err := svc.Request(ctx, patient, bad); codeOf(t, err) != services.CodeValidation {
			t.Fatalf("bad date: expected validationError, got %v", err)
		}

		bad = validRequest()
		bad.Time = "25:00"
		if _, err := svc.Request(ctx, patient, bad); codeOf(t, err) != services.CodeValidation {
			t.Fatalf("bad time: expected validationError, got %v", err)
		}

		bad = validRequest()
		bad.Type = "surgery"
		if _, err := svc.Request(ctx, patient, bad); codeOf(t, err) != services.CodeValidation {
			t.Fatalf("bad type: expected validationError, got %v", err)
		}
	})

	t.Run("NoScheduleDeclared", func(t *testing.T) {
		svc, _, _ := newTestService()
		if _, err := svc.Request(ctx, patient, validRequest()); codeOf(t, err) != services.CodeNoScheduleDeclared {
			t.Fatalf("expected noScheduleDeclared, got %v", err)
		}
	})

	t.Run("LeaveBlocksRequest", func(t *testing.T) {
		svc, st, _ := newTestService()
		sched := declareTestSchedule(t, st)
		st.mu.Lock()
		sched.IsOnLeave = true
		sched.LeaveStartDate = "2025-01-10"
		sched.LeaveEndDate = "2025-01-12"
		st.schedules[sched.ID] = sched
		st.mu.Unlock()

		in := validRequest()
		in.Date = "2025-01-11"
		in.Time = "09:00"
		if _, err := svc.Request(ctx, patient, in); codeOf(t, err) != services.CodeDoctorUnavailable {
			t.Fatalf("expected doctorUnavailable, got %v", err)
		}
	})
}

func TestApproveLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("ApproveRegistersSlot", func(t *testing.T) {
		svc, st, notifier := newTestService()
		declareTestSchedule(t, st)

		appt, err := svc.Request(ctx, patient, validRequest())
		if err != nil {
			t.Fatalf("Request: %v", err)
		}

		approved, err := svc.Approve(ctx, doctor, appt.ID)
		if err != nil {
			t.Fatalf("Approve: %v", err)
		}
		if approved.Status != models.AppointmentApproved {
			t.Fatalf("expected approved, got %s", approved.Status)
		}

		st.mu.Lock()
		_, registered := st.slots[slotKey("doc-1", "2025-01-15", "10:00")]
		st.mu.Unlock()
		if !registered {
			t.Fatal("approval must register the booked slot")
		}
		if notifier.reminders != 1 {
			t.Fatalf("expected one reminder scheduled, got %d", notifier.reminders)
		}
	})

	t.Run("SecondRequestForTakenSlotFails", func(t *testing.T) {
		svc, st, _ := newTestService()
		declareTestSchedule(t, st)

		first, err := svc.Request(ctx, patient, validRequest())
		if err != nil {
			t.Fatalf("Request: %v", err)
		}
		if _, err := svc.Approve(ctx, doctor, first.ID); err != nil {
			t.Fatalf("Approve: %v", err)
		}

		second := models.Actor{ID: "user-2", Role: models.RoleUser}
		if _, err := svc.Request(ctx, second, validRequest()); codeOf(t, err) != services.CodeSlotAlreadyTaken {
			t.Fatalf("expected slotAlreadyTaken, got %v", err)
		}
	})

	t.Run("OnlyTargetDoctorApproves", func(t *testing.T) {
		svc, st, _ := newTestService()
		declareTestSchedule(t, st)

		appt, _ := svc.Request(ctx, patient, validRequest())
		other := models.Actor{ID: "doc-2", Role: models.RoleDoctor}
		if _, err := svc.Approve(ctx, other, appt.ID); codeOf(t, err) != services.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
		if _, err := svc.Approve(ctx, patient, appt.ID); codeOf(t, err) != services.CodeForbidden {
			t.Fatalf("patient approval: expected forbidden, got %v", err)
		}
		// Admins cancel; they never approve or reject on a doctor's behalf.
		if _, err := svc.Approve(ctx, admin, appt.ID); codeOf(t, err) != services.CodeForbidden {
			t.Fatalf("admin approval: expected forbidden, got %v", err)
		}
		if _, err := svc.Reject(ctx, admin, appt.ID); codeOf(t, err) != services.CodeForbidden {
			t.Fatalf("admin rejection: expected forbidden, got %v", err)
		}
		got, err := svc.Repo.GetByID(ctx, appt.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Status != models.AppointmentPending {
			t.Fatalf("appointment must stay pending, got %s", got.Status)
		}
	})

	t.Run("ApproveUnknownAppointment", func(t *testing.T) {
		svc, _, _ := newTestService()
		if _, err := svc.Approve(ctx, doctor, "missing"); codeOf(t, err) != services.CodeNotFound {
			t.Fatalf("expected notFound, got %v", err)
		}
	})

	t.Run("ApproveAfterCancelConflicts", func(t *testing.T) {
		svc, st, _ := newTestService()
		declareTestSchedule(t, st)

		appt, _ := svc.Request(ctx, patient, validRequest())
		if _, err := svc.Cancel(ctx, patient, appt.ID); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if _, err := svc.Approve(ctx, doctor, appt.ID); codeOf(t, err) != services.CodeConflict {
			t.Fatalf("expected conflictDetected, got %v", err)
		}
	})

	t.Run("Reject", func(t *testing.T) {
		svc, st, _ := newTestService()
		declareTestSchedule(t, st)

		appt, _ := svc.Request(ctx, patient, validRequest())
		rejected, err := svc.Reject(ctx, doctor, appt.ID)
		if err != nil {
			t.Fatalf("Reject: %v", err)
		}
		if rejected.Status != models.AppointmentRejected {
			t.Fatalf("expected rejected, got %s", rejected.Status)
		}
		// Terminal: a second reject conflicts.
		if _, err := svc.Reject(ctx, doctor, appt.ID); codeOf(t, err) != services.CodeConflict {
			t.Fatalf("expected conflictDetected, got %v", err)
		}
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("CancelIsIdempotent", func(t *testing.T) {
		svc, st, _ := newTestService()
		declareTestSchedule(t, st)

		appt, _ := svc.Request(ctx, patient, validRequest())
		first, err := svc.Cancel(ctx, patient, appt.ID)
		if err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		second, err := svc.Cancel(ctx, patient, appt.ID)
		if err != nil {
			t.Fatalf("repeat Cancel must be a no-op, got %v", err)
		}
		if first.Status != models.AppointmentCancelled || second.Status != models.AppointmentCancelled {
			t.Fatalf("both calls must report cancelled, got %s / %s", first.Status, second.Status)
		}
	})

	t.Run("CancelApprovedFreesSlot", func(t *testing.T) {
		svc, st, _ := newTestService()
		declareTestSchedule(t, st)

		appt, _ := svc.Request(ctx, patient, validRequest())
		if _, err := svc.Approve(ctx, doctor, appt.ID); err != nil {
			t.Fatalf("Approve: %v", err)
		}
		if _, err := svc.Cancel(ctx, doctor, appt.ID); err != nil {
			t.Fatalf("Cancel: %v", err)
		}

		st.mu.Lock()
		_, stillThere := st.slots[slotKey("doc-1", "2025-01-15", "10:00")]
		st.mu.Unlock()
		if stillThere {
			t.Fatal("cancelling an approved appointment must free its slot")
		}

		// Slot is bookable again.
		second := models.Actor{ID: "user-2", Role: models.RoleUser}
		replacement, err := svc.Request(ctx, second, validRequest())
		if err != nil {
			t.Fatalf("rebooking freed slot: %v", err)
		}
		if _, err := svc.Approve(ctx, doctor, replacement.ID); err != nil {
			t.Fatalf("approving rebooked slot: %v", err)
		}
	})

	t.Run("StrangerCannotCancel", func(t *testing.T) {
		svc, st, _ := newTestService()
		declareTestSchedule(t, st)

		appt, _ := svc.Request(ctx, patient, validRequest())
		stranger := models.Actor{ID: "user-9", Role: models.RoleUser}
		if _, err := svc.Cancel(ctx, stranger, appt.ID); codeOf(t, err) != services.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("AdminMayCancel", func(t *testing.T) {
		svc, st, _ := newTestService()
		declareTestSchedule(t, st)

		appt, _ := svc.Request(ctx, patient, validRequest())
		if _, err := svc.Cancel(ctx, admin, appt.ID); err != nil {
			t.Fatalf("admin cancel: %v", err)
		}
	})

	t.Run("RejectedIsTerminal", func(t *testing.T) {
		svc, st, _ := newTestService()
		declareTestSchedule(t, st)

		appt, _ := svc.Request(ctx, patient, validRequest())
		if _, err := svc.Reject(ctx, doctor, appt.ID); err != nil {
			t.Fatalf("Reject: %v", err)
		}
		if _, err := svc.Cancel(ctx, patient, appt.ID); codeOf(t, err) != services.CodeConflict {
			t.Fatalf("expected conflictDetected, got %v", err)
		}
	})
}

func TestConcurrentApproval(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService()
	declareTestSchedule(t, st)

	first, err := svc.Request(ctx, patient, validRequest())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	second, err := svc.Request(ctx, models.Actor{ID: "user-2", Role: models.RoleUser}, validRequest())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = svc.Approve(ctx, doctor, id)
		}(i, id)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var se *services.Error
		if errors.As(err, &se) &&
			(se.Code == services.CodeConflict || se.Code == services.CodeSlotAlreadyTaken) {
			conflicts++
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner and one conflict, got wins=%d conflicts=%d (errs=%v)", wins, conflicts, errs)
	}

	st.mu.Lock()
	slotCount := len(st.slots)
	st.mu.Unlock()
	if slotCount != 1 {
		t.Fatalf("exactly one slot must be registered, got %d", slotCount)
	}
}
