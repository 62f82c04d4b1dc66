package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// ClientHandler exposes the tenant's client book, the rows the identity
// resolver creates and merges on booking.
type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// List searches by name, phone or e-mail. linked=true keeps only clients
// tied to a customer identity, linked=false only phone-only ones.
func (h *ClientHandler) List(c *gin.Context) {
	search := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("tenant_id = ?", tenantIDFrom(c))

	if search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}
	switch c.Query("linked") {
	case "true":
		q = q.Where("auth_identity IS NOT NULL")
	case "false":
		q = q.Where("auth_identity IS NULL")
	}

	var clients []models.Client
	if err := q.Order("created_at DESC, id DESC").Find(&clients).Error; err != nil {
		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	httpresp.List(c, clients)
}

// History lists one client's appointments, newest first.
func (h *ClientHandler) History(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())
	tenantID := tenantIDFrom(c)

	var client models.Client
	if err := db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_not_found", "Cliente não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_client", "Erro ao buscar cliente.")
		return
	}

	var appointments []models.Appointment
	if err := db.
		Preload("Service").
		Where("tenant_id = ? AND client_id = ?", tenantID, client.ID).
		Order(`"date" DESC, "time" DESC`).
		Find(&appointments).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, appointments)
}
