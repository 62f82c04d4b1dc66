package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type AuditLogsHandler struct {
	logs *audit.Logger
}

func NewAuditLogsHandler(logs *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

// List pages through the tenant's audit trail. Malformed filters are ignored
// rather than rejected.
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	f := audit.Filter{
		TenantID: tenantIDFrom(c),
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		From:     dateQuery(c, "from"),
		To:       dateQuery(c, "to"),
		Page:     page,
		Limit:    limit,
	}.Normalize()

	if id, ok := optionalUintQuery(c, "entity_id"); ok {
		f.EntityID = id
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  f.Page,
		"limit": f.Limit,
		"total": total,
		"logs":  logs,
	})
}

func dateQuery(c *gin.Context, name string) *time.Time {
	d, err := timezone.ParseDate(c.Query(name))
	if err != nil {
		return nil
	}
	return &d
}
