package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/agendaplus/salon-scheduler/internal/access"
	"github.com/agendaplus/salon-scheduler/internal/httperr"
	"github.com/agendaplus/salon-scheduler/internal/httpresp"
	"github.com/agendaplus/salon-scheduler/internal/middleware"
	"github.com/agendaplus/salon-scheduler/internal/models"
	"github.com/agendaplus/salon-scheduler/internal/storage"
	"github.com/agendaplus/salon-scheduler/internal/validators"
)

type ProfessionalHandler struct {
	db      *gorm.DB
	avatars *storage.AvatarStore
}

func NewProfessionalHandler(db *gorm.DB, avatars *storage.AvatarStore) *ProfessionalHandler {
	return &ProfessionalHandler{db: db, avatars: avatars}
}

// --------- Requests ---------

type CreateProfessionalRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
}

type UpdateProfessionalRequest struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
}

// --------- Handlers ---------

// Public listing so clients can pick a professional when booking.
func (h *ProfessionalHandler) ListBySalon(c *gin.Context) {
	salonID, ok := paramID(c, "salonId")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid salon id.")
		return
	}

	var pros []models.Professional
	if err := h.db.
		Where("salon_id = ?", salonID).
		Order("name ASC").
		Find(&pros).Error; err != nil {
		httperr.Internal(c, "failed_to_list_professionals", "Could not list professionals.")
		return
	}
	httpresp.List(c, pros)
}

func (h *ProfessionalHandler) Get(c *gin.Context) {
	salonID, ok := paramID(c, "salonId")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid salon id.")
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid professional id.")
		return
	}

	var pro models.Professional
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&pro).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Professional not found.")
		return
	}
	httpresp.OK(c, pro)
}

// Only the owning salon creates professionals under its tenant.
func (h *ProfessionalHandler) Create(c *gin.Context) {
	p := middleware.Principal(c)

	var req CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "Email domain does not resolve.")
		return
	}

	var count int64
	h.db.Model(&models.Professional{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "email_already_registered", "Email already in use.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not hash password.")
		return
	}

	pro := models.Professional{
		SalonID:      p.SalonID,
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Specialty:    req.Specialty,
	}

	if err := h.db.Create(&pro).Error; err != nil {
		httperr.Internal(c, "failed_to_create_professional", "Could not create professional.")
		return
	}

	httpresp.Created(c, pro)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	p := middleware.Principal(c)

	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid professional id.")
		return
	}

	var req UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	var pro models.Professional
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, p.SalonID).
		First(&pro).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Professional not found.")
		return
	}

	if req.Name != nil {
		pro.Name = *req.Name
	}
	if req.Phone != nil {
		pro.Phone = *req.Phone
	}
	if req.Specialty != nil {
		pro.Specialty = *req.Specialty
	}

	if err := h.db.Save(&pro).Error; err != nil {
		httperr.Internal(c, "failed_to_update_professional", "Could not update professional.")
		return
	}

	httpresp.OK(c, pro)
}

func (h *ProfessionalHandler) Delete(c *gin.Context) {
	p := middleware.Principal(c)

	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid professional id.")
		return
	}

	res := h.db.Where("id = ? AND salon_id = ?", id, p.SalonID).
		Delete(&models.Professional{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_professional", "Could not delete professional.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "professional_not_found", "Professional not found.")
		return
	}

	httpresp.NoContent(c)
}

// UploadAvatar accepts a multipart image, normalizes it and stores it in
// the object store. Salon owners may set any of their professionals'
// avatars; professionals only their own.
func (h *ProfessionalHandler) UploadAvatar(c *gin.Context) {
	p := middleware.Principal(c)

	if !h.avatars.Enabled() {
		httperr.Write(c, http.StatusServiceUnavailable, "avatars_disabled", "Avatar storage is not configured.")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid professional id.")
		return
	}

	var pro models.Professional
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, p.SalonID).
		First(&pro).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Professional not found.")
		return
	}

	if p.Role != access.RoleSalon && p.ID != pro.ID {
		httperr.Forbidden(c, "forbidden", "Cannot change another professional's avatar.")
		return
	}

	file, _, err := c.Request.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Avatar file is required.")
		return
	}
	defer file.Close()

	url, err := h.avatars.Upload(c.Request.Context(), file)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Could not process image.")
		return
	}

	pro.AvatarURL = url
	if err := h.db.Save(&pro).Error; err != nil {
		httperr.Internal(c, "failed_to_update_professional", "Could not save avatar URL.")
		return
	}

	httpresp.OK(c, gin.H{"avatar_url": url})
}
