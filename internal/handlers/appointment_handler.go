package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendaplus/salon-scheduler/internal/access"
	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
	"github.com/agendaplus/salon-scheduler/internal/httperr"
	"github.com/agendaplus/salon-scheduler/internal/httpresp"
	"github.com/agendaplus/salon-scheduler/internal/middleware"
	ucAppointment "github.com/agendaplus/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create     *ucAppointment.CreateAppointment
	reschedule *ucAppointment.RescheduleAppointment
	status     *ucAppointment.UpdateStatus
	delete     *ucAppointment.DeleteAppointment
	queries    *ucAppointment.Queries
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	status *ucAppointment.UpdateStatus,
	del *ucAppointment.DeleteAppointment,
	queries *ucAppointment.Queries,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:     create,
		reschedule: reschedule,
		status:     status,
		delete:     del,
		queries:    queries,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID       uint   `json:"client_id"`
	ProfessionalID uint   `json:"professional_id" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time"`
	Notes          string `json:"notes"`
}

type RescheduleRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	p := middleware.Principal(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	start, err := parseDateTime(req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_time", "Invalid start_time.")
		return
	}

	var end time.Time
	if req.EndTime != "" {
		end, err = parseDateTime(req.EndTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_end_time", "Invalid end_time.")
			return
		}
	}

	// Clients book for themselves; the salon names the client explicitly.
	clientID := req.ClientID
	if p.Role == access.RoleClient {
		clientID = p.ID
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Principal:      p,
		SalonID:        p.SalonID,
		ClientID:       clientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		StartTime:      start,
		EndTime:        end,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.FromDomain(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	p := middleware.Principal(c)

	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	start, err := parseDateTime(req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_time", "Invalid start_time.")
		return
	}
	end, err := parseDateTime(req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_end_time", "Invalid end_time.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleAppointmentInput{
		Principal:     p,
		AppointmentID: id,
		NewStart:      start,
		NewEnd:        end,
	})
	if err != nil {
		httperr.FromDomain(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	p := middleware.Principal(c)

	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	ap, err := h.status.Execute(c.Request.Context(), ucAppointment.UpdateStatusInput{
		Principal:     p,
		AppointmentID: id,
		NewStatus:     domain.Status(req.Status),
	})
	if err != nil {
		httperr.FromDomain(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	p := middleware.Principal(c)

	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	if err := h.delete.Execute(c.Request.Context(), p, id); err != nil {
		httperr.FromDomain(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// READS
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	p := middleware.Principal(c)

	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.queries.Get(c.Request.Context(), p, id)
	if err != nil {
		httperr.FromDomain(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ListMine serves the caller's own view: a client sees its bookings, a
// professional its day, a salon the whole tenant.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	p := middleware.Principal(c)
	ctx := c.Request.Context()

	switch p.Role {
	case access.RoleClient:
		aps, err := h.queries.ListByClient(ctx, p.ID)
		if err != nil {
			httperr.FromDomain(c, err)
			return
		}
		httpresp.List(c, aps)

	case access.RoleProfessional:
		day, err := parseDate(c.DefaultQuery("date", time.Now().Format("2006-01-02")))
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Invalid date.")
			return
		}
		aps, err := h.queries.ListByProfessional(ctx, p.ID, day)
		if err != nil {
			httperr.FromDomain(c, err)
			return
		}
		httpresp.List(c, aps)

	default:
		aps, err := h.queries.ListBySalon(ctx, p.SalonID)
		if err != nil {
			httperr.FromDomain(c, err)
			return
		}
		httpresp.List(c, aps)
	}
}
