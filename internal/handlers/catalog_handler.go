package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// CatalogHandler manages the tenant's services and products. Prices edited
// here never touch existing line items, which carry their own snapshot.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// --------- Requests ---------

type CreateCatalogItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Kind        string  `json:"kind" binding:"omitempty,oneof=service product"`
	DurationMin int     `json:"duration_min" binding:"min=0"`
	Price       float64 `json:"price" binding:"min=0"`
	Category    string  `json:"category"`
}

type UpdateCatalogItemRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// --------- Handlers ---------

func (h *CatalogHandler) List(c *gin.Context) {
	tenantID := tenantIDFrom(c)

	kind := strings.ToLower(strings.TrimSpace(c.Query("kind")))
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active")) // "true", "false" or empty
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("tenant_id = ?", tenantID)

	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var items []models.CatalogItem
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		httperr.Internal(c, "failed_to_list_catalog", "Erro ao listar catálogo.")
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req CreateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	kind := req.Kind
	if kind == "" {
		kind = models.CatalogKindService
	}

	item := models.CatalogItem{
		TenantID:    tenantIDFrom(c),
		Name:        req.Name,
		Description: req.Description,
		Kind:        kind,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
		Category:    strings.ToLower(req.Category),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		httperr.Internal(c, "failed_to_create_catalog_item", "Erro ao criar item.")
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var item models.CatalogItem
	if err := db.
		Where("id = ? AND tenant_id = ?", id, tenantIDFrom(c)).
		First(&item).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "catalog_item_not_found", "Item não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_catalog_item", "Erro ao buscar item.")
		return
	}

	var req UpdateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.DurationMin != nil {
		item.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		if *req.Price < 0 {
			httperr.BadRequest(c, "invalid_price", "Preço inválido.")
			return
		}
		item.Price = *req.Price
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	if req.Category != nil {
		item.Category = strings.ToLower(*req.Category)
	}

	if err := db.Save(&item).Error; err != nil {
		httperr.Internal(c, "failed_to_update_catalog_item", "Erro ao salvar item.")
		return
	}

	c.JSON(http.StatusOK, item)
}
