package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/agendaplus/salon-scheduler/internal/access"
	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
)

func TestDeleteAppointment(t *testing.T) {
	repo := seededRepo()
	create := NewCreateAppointment(repo, nil, NopSlotCache{})
	del := NewDeleteAppointment(repo, nil, NopSlotCache{})
	ctx := context.Background()

	ap, err := create.Execute(ctx, createInput(at(10, 0), at(10, 30)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := del.Execute(ctx, clientPrincipal(), ap.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = repo.GetAppointment(ctx, ap.ID)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("get after delete: got %v, want NotFoundError", err)
	}
}

func TestDeleteAppointmentNotFound(t *testing.T) {
	repo := seededRepo()
	del := NewDeleteAppointment(repo, nil, NopSlotCache{})

	err := del.Execute(context.Background(), clientPrincipal(), 999)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
}

func TestDeleteAppointmentForbidden(t *testing.T) {
	repo := seededRepo()
	create := NewCreateAppointment(repo, nil, NopSlotCache{})
	del := NewDeleteAppointment(repo, nil, NopSlotCache{})
	ctx := context.Background()

	ap, err := create.Execute(ctx, createInput(at(10, 0), at(10, 30)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = del.Execute(ctx, access.Principal{Role: access.RoleClient, ID: 7, SalonID: 1}, ap.ID)
	var forbidden *access.ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("got %v, want ForbiddenError", err)
	}

	if _, err := repo.GetAppointment(ctx, ap.ID); err != nil {
		t.Fatal("appointment deleted despite forbidden principal")
	}
}
