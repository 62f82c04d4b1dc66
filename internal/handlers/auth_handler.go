package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/config"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
	"github.com/BruksfildServices01/booking-engine/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	// emailOK checks the address before an account is created.
	emailOK func(string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, emailOK func(string) bool) *AuthHandler {
	if emailOK == nil {
		emailOK = validators.IsEmailDomainValid
	}
	return &AuthHandler{db: db, config: cfg, emailOK: emailOK}
}

// --------- Requests ---------

type RegisterRequest struct {
	TenantName     string `json:"tenant_name" binding:"required"`
	TenantSlug     string `json:"tenant_slug" binding:"required"`
	TenantPhone    string `json:"tenant_phone"`
	TenantAddress  string `json:"tenant_address"`
	TenantTimezone string `json:"tenant_timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates a tenant together with its owner account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.TenantSlug))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	tz := strings.TrimSpace(req.TenantTimezone)
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
		return
	}

	if !h.emailOK(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro interno.")
		return
	}

	tenant := models.Tenant{
		Name:     req.TenantName,
		Slug:     slug,
		Phone:    req.TenantPhone,
		Address:  req.TenantAddress,
		Timezone: tz,
	}
	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleOwner,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Tenant{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrConflict("slug_already_exists")
		}
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrConflict("email_already_exists")
		}

		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		user.TenantID = tenant.ID
		if err := tx.Omit("Tenant").Create(&user).Error; err != nil {
			return err
		}
		tenant.OwnerUserID = &user.ID
		return tx.Model(&tenant).Update("owner_user_id", user.ID).Error
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_register")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro interno.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   userView(&user),
		"tenant": tenantView(&tenant),
		"token":  token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Tenant").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Credenciais inválidas.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Credenciais inválidas.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro interno.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   userView(&user),
		"tenant": tenantView(&user.Tenant),
		"token":  token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"tenantId": user.TenantID,
		"role":     user.Role,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

// --------- Views ---------

func userView(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"phone":     u.Phone,
		"role":      u.Role,
		"tenant_id": u.TenantID,
	}
}

func tenantView(t *models.Tenant) gin.H {
	return gin.H{
		"id":                  t.ID,
		"name":                t.Name,
		"slug":                t.Slug,
		"phone":               t.Phone,
		"address":             t.Address,
		"timezone":            t.Timezone,
		"min_advance_minutes": t.MinAdvanceMinutes,
	}
}
