package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agendaplus/salon-scheduler/internal/httperr"
	"github.com/agendaplus/salon-scheduler/internal/httpresp"
	"github.com/agendaplus/salon-scheduler/internal/middleware"
	"github.com/agendaplus/salon-scheduler/internal/models"
)

type SalonHandler struct {
	db *gorm.DB
}

func NewSalonHandler(db *gorm.DB) *SalonHandler {
	return &SalonHandler{db: db}
}

// Public read used by the booking page to find a salon.
func (h *SalonHandler) List(c *gin.Context) {
	var salons []models.Salon
	if err := h.db.Order("name ASC").Find(&salons).Error; err != nil {
		httperr.Internal(c, "failed_to_list_salons", "Could not list salons.")
		return
	}
	httpresp.List(c, salons)
}

func (h *SalonHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "salonId")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid salon id.")
		return
	}

	var salon models.Salon
	if err := h.db.First(&salon, id).Error; err != nil {
		httperr.NotFound(c, "salon_not_found", "Salon not found.")
		return
	}
	httpresp.OK(c, salon)
}

// --------- Authenticated salon self-service ---------

type UpdateSalonRequest struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	PostalCode  *string `json:"postal_code,omitempty"`
	OpeningTime *string `json:"opening_time,omitempty"`
	ClosingTime *string `json:"closing_time,omitempty"`
}

func (h *SalonHandler) GetMe(c *gin.Context) {
	p := middleware.Principal(c)

	var salon models.Salon
	if err := h.db.First(&salon, p.SalonID).Error; err != nil {
		httperr.NotFound(c, "salon_not_found", "Salon not found.")
		return
	}
	httpresp.OK(c, salon)
}

func (h *SalonHandler) UpdateMe(c *gin.Context) {
	p := middleware.Principal(c)

	var req UpdateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	var salon models.Salon
	if err := h.db.First(&salon, p.SalonID).Error; err != nil {
		httperr.NotFound(c, "salon_not_found", "Salon not found.")
		return
	}

	if req.Name != nil {
		salon.Name = *req.Name
	}
	if req.Phone != nil {
		salon.Phone = *req.Phone
	}
	if req.Address != nil {
		salon.Address = *req.Address
	}
	if req.City != nil {
		salon.City = *req.City
	}
	if req.State != nil {
		salon.State = *req.State
	}
	if req.PostalCode != nil {
		salon.PostalCode = *req.PostalCode
	}
	if req.OpeningTime != nil {
		salon.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		salon.ClosingTime = *req.ClosingTime
	}

	if err := h.db.Save(&salon).Error; err != nil {
		httperr.Internal(c, "failed_to_update_salon", "Could not update salon.")
		return
	}

	httpresp.OK(c, salon)
}
