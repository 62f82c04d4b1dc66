package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

func tenantIDFrom(c *gin.Context) uint {
	return c.MustGet(middleware.ContextTenantID).(uint)
}

func actorFrom(c *gin.Context) *uint {
	id := c.MustGet(middleware.ContextUserID).(uint)
	return &id
}

// professionalScope picks the professional a staff request works on: an
// explicit id wins, a professional defaults to themself, an owner to the
// whole tenant.
func professionalScope(c *gin.Context, explicit *uint) *uint {
	if explicit != nil {
		return explicit
	}
	if c.GetString(middleware.ContextUserRole) == models.RoleProfessional {
		return actorFrom(c)
	}
	return nil
}

// optionalUintQuery reads an optional numeric query parameter. ok is false
// only when the parameter is present and malformed.
func optionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func idParam(c *gin.Context) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(v), true
}

func invalidRequest(c *gin.Context) {
	httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
}
