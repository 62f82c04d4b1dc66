package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	ucAppointment "github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentUseCases groups what the staff appointment routes call.
type AppointmentUseCases struct {
	Availability *ucAppointment.ListAvailableSlots
	Create       *ucAppointment.CreateAppointment
	Reschedule   *ucAppointment.RescheduleAppointment
	SetStatus    *ucAppointment.SetAppointmentStatus
	Complete     *ucAppointment.CompleteAppointment
	Cancel       *ucAppointment.CancelAppointment
	AttachItems  *ucAppointment.AttachLineItems
	QuickSale    *ucAppointment.QuickSale
	ListByDate   *ucAppointment.ListAppointmentsByDate
	ListByMonth  *ucAppointment.ListAppointmentsByMonth
}

type AppointmentHandler struct {
	uc   AppointmentUseCases
	repo domain.Repository
}

func NewAppointmentHandler(uc AppointmentUseCases, repo domain.Repository) *AppointmentHandler {
	return &AppointmentHandler{uc: uc, repo: repo}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProfessionalID *uint  `json:"professional_id"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone"`
	ClientEmail    string `json:"client_email"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:MM
	Notes          string `json:"notes"`
	// Origin is manual (default) or manual_history for back-filled records.
	Origin string `json:"origin"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type SetStatusRequest struct {
	Status       string                 `json:"status" binding:"required"`
	SettledPrice *float64               `json:"settled_price"`
	LineItems    []domain.LineItemInput `json:"line_items"`
}

type CompleteAppointmentRequest struct {
	SettledPrice *float64               `json:"settled_price"`
	LineItems    []domain.LineItemInput `json:"line_items"`
}

type LineItemsRequest struct {
	Items []domain.LineItemInput `json:"items"`
}

type QuickSaleRequest struct {
	ProfessionalID *uint                  `json:"professional_id"`
	ClientName     string                 `json:"client_name" binding:"required"`
	ClientPhone    string                 `json:"client_phone"`
	ClientEmail    string                 `json:"client_email"`
	Items          []domain.LineItemInput `json:"items" binding:"required"`
	Notes          string                 `json:"notes"`
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
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

	slots, err := h.uc.Availability.Execute(c.Request.Context(), ucAppointment.ListAvailableSlotsInput{
		TenantID:       tenantIDFrom(c),
		ProfessionalID: professionalScope(c, professionalID),
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

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	origin := req.Origin
	if origin == "" {
		origin = models.OriginManual
	}

	ap, err := h.uc.Create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		TenantID:       tenantIDFrom(c),
		ProfessionalID: professionalScope(c, req.ProfessionalID),
		ServiceID:      req.ServiceID,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
		StaffBooked:    true,
		Origin:         origin,
		ActorUserID:    actorFrom(c),
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_appointment")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
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

	list, err := h.uc.ListByDate.Execute(
		c.Request.Context(),
		tenantIDFrom(c),
		professionalScope(c, professionalID),
		date,
	)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	professionalID, ok := optionalUintQuery(c, "professional_id")
	if !ok {
		httperr.BadRequest(c, "invalid_professional_id", "Profissional inválido.")
		return
	}

	list, err := h.uc.ListByMonth.Execute(
		c.Request.Context(),
		tenantIDFrom(c),
		professionalScope(c, professionalID),
		year,
		month,
	)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ap, err := h.uc.Reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleAppointmentInput{
		TenantID:      tenantIDFrom(c),
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
		ActorUserID:   actorFrom(c),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_reschedule_appointment")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ap, err := h.uc.SetStatus.Execute(c.Request.Context(), ucAppointment.SetAppointmentStatusInput{
		TenantID:      tenantIDFrom(c),
		AppointmentID: id,
		Status:        req.Status,
		SettledPrice:  req.SettledPrice,
		LineItems:     req.LineItems,
		ActorUserID:   actorFrom(c),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_status")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	// the body is optional
	var req CompleteAppointmentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidRequest(c)
			return
		}
	}

	ap, err := h.uc.Complete.Execute(c.Request.Context(), ucAppointment.CompleteAppointmentInput{
		TenantID:      tenantIDFrom(c),
		AppointmentID: id,
		SettledPrice:  req.SettledPrice,
		LineItems:     req.LineItems,
		ActorUserID:   actorFrom(c),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_complete_appointment")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ap, err := h.uc.Cancel.Execute(c.Request.Context(), tenantIDFrom(c), *actorFrom(c), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_cancel_appointment")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// LINE ITEMS
// ======================================================

func (h *AppointmentHandler) ReplaceItems(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req LineItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ap, err := h.uc.AttachItems.Execute(c.Request.Context(), ucAppointment.AttachLineItemsInput{
		TenantID:      tenantIDFrom(c),
		AppointmentID: id,
		Items:         req.Items,
		ActorUserID:   actorFrom(c),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_save_line_items")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) ListItems(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.repo.GetAppointment(ctx, tenantIDFrom(c), id); err != nil {
		httperr.FromError(c, err, "failed_to_get_appointment")
		return
	}

	items, err := h.repo.ListLineItems(ctx, id)
	if err != nil {
		httperr.Internal(c, "failed_to_list_line_items", "Erro ao listar itens.")
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// QUICK SALE
// ======================================================

func (h *AppointmentHandler) QuickSale(c *gin.Context) {
	var req QuickSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ap, err := h.uc.QuickSale.Execute(c.Request.Context(), ucAppointment.QuickSaleInput{
		TenantID:       tenantIDFrom(c),
		ProfessionalID: professionalScope(c, req.ProfessionalID),
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		Items:          req.Items,
		Notes:          req.Notes,
		ActorUserID:    actorFrom(c),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_register_sale")
		return
	}

	c.JSON(http.StatusCreated, ap)
}
