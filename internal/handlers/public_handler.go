package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	ucAppointment "github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db           *gorm.DB
	repo         domain.Repository
	availability *ucAppointment.ListAvailableSlots
	create       *ucAppointment.CreateAppointment
}

func NewPublicHandler(
	db *gorm.DB,
	repo domain.Repository,
	availability *ucAppointment.ListAvailableSlots,
	create *ucAppointment.CreateAppointment,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		repo:         repo,
		availability: availability,
		create:       create,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ProfessionalID *uint  `json:"professional_id"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	ClientName     string `json:"client_name" binding:"required"`
	// ClientPhone may be omitted when a customer token identifies the caller.
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Notes       string `json:"notes"`
}

func (h *PublicHandler) tenant(c *gin.Context) (*models.Tenant, bool) {
	tenant, err := h.repo.GetTenantBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_tenant")
		return nil, false
	}
	return tenant, true
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))

	q := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND kind = ? AND active = ?", tenant.ID, models.CatalogKindService, true)
	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	var services []models.CatalogItem
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant": gin.H{
			"name":     tenant.Name,
			"slug":     tenant.Slug,
			"phone":    tenant.Phone,
			"address":  tenant.Address,
			"timezone": tenant.Timezone,
		},
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}
	professionalID, ok := optionalUintQuery(c, "professional_id")
	if !ok {
		httperr.BadRequest(c, "invalid_professional_id", "Profissional inválido.")
		return
	}

	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), ucAppointment.ListAvailableSlotsInput{
		TenantID:       tenant.ID,
		ProfessionalID: professionalID,
		Date:           date,
	})
	if err != nil {
		httperr.FromError(c, err, "availability_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		TenantID:       tenant.ID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		Identity:       middleware.IdentityFrom(c),
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
		Origin:         models.OriginSite,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_appointment")
		return
	}

	c.JSON(http.StatusCreated, ap)
}
