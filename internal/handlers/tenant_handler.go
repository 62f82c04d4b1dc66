package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/infra/cache"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type TenantHandler struct {
	db    *gorm.DB
	repo  domain.Repository
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
}

func NewTenantHandler(
	db *gorm.DB,
	repo domain.Repository,
	availability *cache.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
) *TenantHandler {
	return &TenantHandler{db: db, repo: repo, cache: availability, audit: auditDispatcher}
}

type UpdateTenantConfigRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

func (h *TenantHandler) GetMeTenant(c *gin.Context) {
	tenant, err := h.repo.GetTenantByID(c.Request.Context(), tenantIDFrom(c))
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_tenant")
		return
	}

	httpresp.OK(c, tenant)
}

func (h *TenantHandler) UpdateMeTenant(c *gin.Context) {
	ctx := c.Request.Context()

	tenant, err := h.repo.GetTenantByID(ctx, tenantIDFrom(c))
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_tenant")
		return
	}

	var req UpdateTenantConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			httperr.BadRequest(c, "invalid_name", "Nome obrigatório.")
			return
		}
		tenant.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}
	if req.Address != nil {
		tenant.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		tenant.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		tenant.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.WithContext(ctx).Save(tenant).Error; err != nil {
		httperr.Internal(c, "failed_to_update_tenant", "Erro ao salvar as configurações.")
		return
	}

	h.cache.Invalidate(ctx, tenant.ID)
	h.audit.Dispatch(audit.Event{
		TenantID: tenant.ID,
		UserID:   actorFrom(c),
		Action:   "tenant_updated",
		Entity:   "tenant",
		EntityID: &tenant.ID,
		Metadata: req,
	})

	c.JSON(http.StatusOK, tenant)
}
