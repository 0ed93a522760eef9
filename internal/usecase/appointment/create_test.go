package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/agendaplus/salon-scheduler/internal/access"
	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
	"github.com/agendaplus/salon-scheduler/internal/models"
)

func createInput(start, end time.Time) CreateAppointmentInput {
	return CreateAppointmentInput{
		Principal:      clientPrincipal(),
		SalonID:        1,
		ClientID:       1,
		ProfessionalID: 1,
		ServiceID:      1,
		StartTime:      start,
		EndTime:        end,
	}
}

func TestCreateAppointment(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, nil, NopSlotCache{})

	ap, err := uc.Execute(context.Background(), createInput(at(10, 0), at(10, 30)))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if ap.ID == 0 {
		t.Fatal("appointment was not persisted")
	}
	if ap.Status != string(domain.StatusScheduled) {
		t.Fatalf("status = %q, want scheduled", ap.Status)
	}
	if !ap.EndTime.Equal(at(10, 30)) {
		t.Fatalf("end_time = %v, want %v", ap.EndTime, at(10, 30))
	}
}

func TestCreateAppointmentDerivesEndFromService(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, nil, NopSlotCache{})

	in := createInput(at(14, 0), time.Time{})
	ap, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !ap.EndTime.Equal(at(14, 30)) {
		t.Fatalf("end_time = %v, want start + service duration", ap.EndTime)
	}
}

func TestCreateAppointmentInvalidInterval(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, nil, NopSlotCache{})

	for _, in := range []CreateAppointmentInput{
		createInput(at(10, 0), at(10, 0)),
		createInput(at(10, 30), at(10, 0)),
	} {
		_, err := uc.Execute(context.Background(), in)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("got %v, want ValidationError", err)
		}
	}
}

func TestCreateAppointmentConflict(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, nil, NopSlotCache{})
	ctx := context.Background()

	first, err := uc.Execute(ctx, createInput(at(10, 0), at(11, 0)))
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err = uc.Execute(ctx, createInput(at(10, 30), at(11, 30)))
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("got %v, want ConflictError", err)
	}
	if conflict.ConflictingID != first.ID {
		t.Fatalf("conflicting id = %d, want %d", conflict.ConflictingID, first.ID)
	}
}

func TestCreateAppointmentTouchingSlots(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, nil, NopSlotCache{})
	ctx := context.Background()

	if _, err := uc.Execute(ctx, createInput(at(10, 0), at(10, 30))); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := uc.Execute(ctx, createInput(at(10, 30), at(11, 0))); err != nil {
		t.Fatalf("back-to-back create rejected: %v", err)
	}
	if _, err := uc.Execute(ctx, createInput(at(9, 30), at(10, 0))); err != nil {
		t.Fatalf("preceding back-to-back create rejected: %v", err)
	}
}

func TestCreateAppointmentAfterCancellationFreesSlot(t *testing.T) {
	repo := seededRepo()
	create := NewCreateAppointment(repo, nil, NopSlotCache{})
	status := NewUpdateStatus(repo, nil, NopSlotCache{})
	ctx := context.Background()

	first, err := create.Execute(ctx, createInput(at(10, 0), at(10, 30)))
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	if _, err := status.Execute(ctx, UpdateStatusInput{
		Principal:     clientPrincipal(),
		AppointmentID: first.ID,
		NewStatus:     domain.StatusCancelled,
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := create.Execute(ctx, createInput(at(10, 0), at(10, 30))); err != nil {
		t.Fatalf("create into freed slot rejected: %v", err)
	}
}

func TestCreateAppointmentTenantMismatch(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, nil, NopSlotCache{})
	ctx := context.Background()

	// Professional 20 belongs to salon 2.
	in := createInput(at(10, 0), at(10, 30))
	in.ProfessionalID = 20
	_, err := uc.Execute(ctx, in)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
	if nf.Entity != "professional" {
		t.Fatalf("entity = %q, want professional", nf.Entity)
	}
}

func TestCreateAppointmentForbidden(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, nil, NopSlotCache{})
	ctx := context.Background()

	// A client may only book for itself.
	in := createInput(at(10, 0), at(10, 30))
	in.Principal = access.Principal{Role: access.RoleClient, ID: 50, SalonID: 1}
	_, err := uc.Execute(ctx, in)
	var forbidden *access.ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("got %v, want ForbiddenError", err)
	}

	// A principal from another tenant gets forbidden before any lookup.
	in = createInput(at(10, 0), at(10, 30))
	in.Principal = access.Principal{Role: access.RoleSalon, ID: 2, SalonID: 2}
	_, err = uc.Execute(ctx, in)
	if !errors.As(err, &forbidden) {
		t.Fatalf("cross-tenant: got %v, want ForbiddenError", err)
	}
}

func TestCreateAppointmentConcurrent(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, nil, NopSlotCache{})
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(ctx, createInput(at(10, 0), at(10, 30)))
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			var conflict *domain.ConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("unexpected error: %v", err)
			}
			conflicts++
		}
	}
	if ok != 1 {
		t.Fatalf("%d creates succeeded, want exactly 1", ok)
	}
	if conflicts != workers-1 {
		t.Fatalf("%d conflicts, want %d", conflicts, workers-1)
	}

	stored, _ := repo.ListByProfessional(ctx, 1, at(0, 0), at(23, 59))
	if len(stored) != 1 {
		t.Fatalf("%d appointments stored, want 1", len(stored))
	}
}

// flakyRepo fails the first n writes with a serialization error, the way
// a serializable transaction aborts under contention.
type flakyRepo struct {
	*memRepo
	failures int
}

type flakyTx struct {
	domain.Repository
	parent *flakyRepo
}

func (r *flakyRepo) InProfessionalTx(ctx context.Context, professionalID uint, fn func(ctx context.Context, tx domain.Repository) error) error {
	return r.memRepo.InProfessionalTx(ctx, professionalID, func(ctx context.Context, tx domain.Repository) error {
		return fn(ctx, &flakyTx{Repository: tx, parent: r})
	})
}

func (t *flakyTx) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if t.parent.failures > 0 {
		t.parent.failures--
		return domain.ErrSerialization
	}
	return t.Repository.CreateAppointment(ctx, ap)
}

func TestCreateAppointmentRetriesOnSerializationFailure(t *testing.T) {
	repo := &flakyRepo{memRepo: seededRepo(), failures: 1}
	uc := NewCreateAppointment(repo, nil, NopSlotCache{})

	ap, err := uc.Execute(context.Background(), createInput(at(10, 0), at(10, 30)))
	if err != nil {
		t.Fatalf("Execute error after retry: %v", err)
	}
	if ap.ID == 0 {
		t.Fatal("appointment was not persisted on retry")
	}
}

func TestCreateAppointmentGivesUpAfterOneRetry(t *testing.T) {
	repo := &flakyRepo{memRepo: seededRepo(), failures: 2}
	uc := NewCreateAppointment(repo, nil, NopSlotCache{})

	_, err := uc.Execute(context.Background(), createInput(at(10, 0), at(10, 30)))
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("got %v, want ConflictError", err)
	}
	if conflict.ConflictingID != 0 {
		t.Fatalf("conflicting id = %d, want 0 for a store-detected conflict", conflict.ConflictingID)
	}
}
