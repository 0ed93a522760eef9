package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
	"github.com/agendaplus/salon-scheduler/internal/httperr"
	"github.com/agendaplus/salon-scheduler/internal/httpresp"
	ucAppointment "github.com/agendaplus/salon-scheduler/internal/usecase/appointment"
)

type AvailabilityHandler struct {
	availability *ucAppointment.GetAvailability
}

func NewAvailabilityHandler(availability *ucAppointment.GetAvailability) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// Get lists the free slots for a professional on a given day. Public: the
// booking page calls it before the client signs in.
func (h *AvailabilityHandler) Get(c *gin.Context) {
	salonID, ok := paramID(c, "salonId")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid salon id.")
		return
	}

	professionalID, err := strconv.ParseUint(c.Query("professional_id"), 10, 64)
	if err != nil || professionalID == 0 {
		httperr.BadRequest(c, "invalid_professional_id", "professional_id is required.")
		return
	}

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil || serviceID == 0 {
		httperr.BadRequest(c, "invalid_service_id", "service_id is required.")
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date is required as YYYY-MM-DD.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		SalonID:        salonID,
		ProfessionalID: uint(professionalID),
		ServiceID:      uint(serviceID),
		Date:           date,
	})
	if err != nil {
		httperr.FromDomain(c, err)
		return
	}

	httpresp.List(c, slots)
}
