package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	ucAppointment "github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
)

type OperatingHoursHandler struct {
	repo    domain.Repository
	replace *ucAppointment.ReplaceOperatingHours
}

func NewOperatingHoursHandler(repo domain.Repository, replace *ucAppointment.ReplaceOperatingHours) *OperatingHoursHandler {
	return &OperatingHoursHandler{repo: repo, replace: replace}
}

type OperatingDayConfig struct {
	DayOfWeek    int    `json:"day_of_week" binding:"min=0,max=6"`
	IsClosed     bool   `json:"is_closed"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	LunchStart   string `json:"lunch_start"`
	LunchEnd     string `json:"lunch_end"`
	SlotDuration int    `json:"slot_duration" binding:"min=0"`
}

type OperatingHoursUpdateRequest struct {
	// ProfessionalID nil edits the tenant's general week.
	ProfessionalID *uint                `json:"professional_id"`
	Days           []OperatingDayConfig `json:"days" binding:"required,dive"`
}

// Get lists the week of one scope: the general rows, or a professional's
// overrides when professional_id is given.
func (h *OperatingHoursHandler) Get(c *gin.Context) {
	professionalID, ok := optionalUintQuery(c, "professional_id")
	if !ok {
		httperr.BadRequest(c, "invalid_professional_id", "Profissional inválido.")
		return
	}

	ctx := c.Request.Context()
	tenantID := tenantIDFrom(c)

	week := make([]models.OperatingHours, 0, 7)
	for dow := 0; dow < 7; dow++ {
		rows, err := h.repo.ListOperatingHours(ctx, tenantID, dow)
		if err != nil {
			httperr.Internal(c, "failed_to_get_operating_hours", "Erro ao buscar horários.")
			return
		}
		for _, row := range rows {
			if sameScope(row.ProfessionalID, professionalID) {
				week = append(week, row)
			}
		}
	}

	c.JSON(http.StatusOK, week)
}

func sameScope(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (h *OperatingHoursHandler) Update(c *gin.Context) {
	var req OperatingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	days := make([]models.OperatingHours, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, models.OperatingHours{
			DayOfWeek:    d.DayOfWeek,
			IsClosed:     d.IsClosed,
			StartTime:    d.StartTime,
			EndTime:      d.EndTime,
			LunchStart:   d.LunchStart,
			LunchEnd:     d.LunchEnd,
			SlotDuration: d.SlotDuration,
		})
	}

	rows, err := h.replace.Execute(c.Request.Context(), ucAppointment.ReplaceOperatingHoursInput{
		TenantID:       tenantIDFrom(c),
		ProfessionalID: req.ProfessionalID,
		Days:           days,
		ActorUserID:    actorFrom(c),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_save_operating_hours")
		return
	}

	c.JSON(http.StatusOK, rows)
}
