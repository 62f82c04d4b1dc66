package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Tenant").
		Where("id = ? AND tenant_id = ?", userID, tenantIDFrom(c)).
		First(&user).Error; err != nil {
		httperr.Unauthorized(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   userView(&user),
		"tenant": tenantView(&user.Tenant),
	})
}
