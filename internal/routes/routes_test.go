package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/BruksfildServices01/booking-engine/internal/config"
	"github.com/BruksfildServices01/booking-engine/internal/observability/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/testutil"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

const tomorrow = "2026-10-16"

type server struct {
	t      *testing.T
	engine *gin.Engine
	cfg    *config.Config
	fx     testutil.Fixture
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db, "America/Sao_Paulo")
	testutil.Product(t, db, fx.Tenant.ID, "Pomada", 20)

	cfg := &config.Config{JWTSecret: "staff-secret", IdentityJWTSecret: "identity-secret"}
	reg := prometheus.NewRegistry()

	r := gin.New()
	RegisterRoutes(r, Options{
		DB:             db,
		Config:         cfg,
		Logger:         zaptest.NewLogger(t),
		Metrics:        metrics.NewBookingMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Clock:          timezone.FixedClock{At: time.Date(2026, 10, 15, 17, 5, 0, 0, time.UTC)},
		EmailCheck:     func(string) bool { return true },
	})

	return &server{t: t, engine: r, cfg: cfg, fx: fx}
}

func (s *server) staffToken() string {
	s.t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      s.fx.Owner.ID,
		"tenantId": s.fx.Tenant.ID,
		"role":     "owner",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(s.cfg.JWTSecret))
	require.NoError(s.t, err)
	return tok
}

func (s *server) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *server) staff(method, path string, body any) *httptest.ResponseRecorder {
	return s.do(method, path, body, map[string]string{"Authorization": "Bearer " + s.staffToken()})
}

// productID lists the catalog through the API, which holds one product.
func (s *server) productID() uint {
	s.t.Helper()
	w := s.staff(http.MethodGet, "/api/me/catalog?kind=product", nil)
	require.Equal(s.t, http.StatusOK, w.Code)
	var products []struct {
		ID uint `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(s.t, products, 1)
	return products[0].ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *server) publicBooking(clock string) map[string]any {
	return map[string]any{
		"service_id":   s.fx.Service.ID,
		"client_name":  "Maria",
		"client_phone": "+55 11 99999-1234",
		"date":         tomorrow,
		"time":         clock,
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicBookingFlow(t *testing.T) {
	s := newServer(t)
	slug := s.fx.Tenant.Slug

	w := s.do(http.MethodGet, "/api/public/"+slug+"/availability?date="+tomorrow, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"09:00"`)

	w = s.do(http.MethodPost, "/api/public/"+slug+"/appointments", s.publicBooking("09:00"), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "site", created["origin"])

	w = s.do(http.MethodPost, "/api/public/"+slug+"/appointments", s.publicBooking("09:00"), nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_no_longer_available", decode(t, w)["error_code"])

	w = s.do(http.MethodGet, "/api/public/"+slug+"/availability?date="+tomorrow, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"09:00"`)

	w = s.do(http.MethodGet, "/metrics", nil, nil)
	assert.Contains(t, w.Body.String(), "booking_created_total")
	assert.Contains(t, w.Body.String(), "booking_conflicts_total")
}

func TestClientBookAndHistory(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/public/"+s.fx.Tenant.Slug+"/appointments", s.publicBooking("11:00"), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.staff(http.MethodGet, "/api/me/clients?query=maria", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data  []struct{ ID uint } `json:"data"`
		Total int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)

	w = s.staff(http.MethodGet, "/api/me/clients?linked=true", nil)
	assert.Equal(t, float64(0), decode(t, w)["total"])

	w = s.staff(http.MethodGet, "/api/me/clients/"+strconv.Itoa(int(list.Data[0].ID))+"/appointments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = s.staff(http.MethodGet, "/api/me/clients/999/appointments", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicErrors(t *testing.T) {
	s := newServer(t)
	slug := s.fx.Tenant.Slug

	w := s.do(http.MethodGet, "/api/public/nowhere/availability?date="+tomorrow, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "tenant_not_found", decode(t, w)["error_code"])

	w = s.do(http.MethodGet, "/api/public/"+slug+"/availability", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/public/"+slug+"/availability?date=16/10/2026", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date_or_time", decode(t, w)["error_code"])

	noPhone := s.publicBooking("10:00")
	delete(noPhone, "client_phone")
	w = s.do(http.MethodPost, "/api/public/"+slug+"/appointments", noPhone, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "client_phone_required", decode(t, w)["error_code"])

	w = s.do(http.MethodPost, "/api/public/"+slug+"/appointments", s.publicBooking("10:00"),
		map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublicBookingWithIdentityNeedsNoPhone(t *testing.T) {
	s := newServer(t)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "auth0|maria"}).
		SignedString([]byte(s.cfg.IdentityJWTSecret))
	require.NoError(t, err)

	body := s.publicBooking("10:00")
	delete(body, "client_phone")
	w := s.do(http.MethodPost, "/api/public/"+s.fx.Tenant.Slug+"/appointments", body,
		map[string]string{"Authorization": "Bearer " + tok})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestStaffRequiresToken(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/api/me/appointments?date="+tomorrow, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffAppointmentLifecycle(t *testing.T) {
	s := newServer(t)

	w := s.staff(http.MethodPost, "/api/me/appointments", map[string]any{
		"professional_id": s.fx.Professional.ID,
		"service_id":      s.fx.Service.ID,
		"client_name":     "João",
		"date":            tomorrow,
		"time":            "15:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "confirmed", created["status"])
	assert.Equal(t, "manual", created["origin"])
	id := int(created["id"].(float64))
	base := "/api/me/appointments/" + strconv.Itoa(id)

	w = s.staff(http.MethodGet, "/api/me/appointments?date="+tomorrow, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = s.staff(http.MethodPatch, base+"/reschedule", map[string]any{"date": tomorrow, "time": "16:00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "16:00", decode(t, w)["time"])

	w = s.staff(http.MethodPatch, base+"/status", map[string]any{"status": "finished"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.staff(http.MethodPatch, base+"/complete", map[string]any{
		"line_items": []map[string]any{{"catalog_item_id": s.productID(), "quantity": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	done := decode(t, w)
	assert.Equal(t, "completed", done["status"])
	assert.Equal(t, 65.0, done["price"])
	assert.NotNil(t, done["concluded_at"])

	w = s.staff(http.MethodGet, base+"/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = s.staff(http.MethodPatch, base+"/cancel", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_transition", decode(t, w)["error_code"])

	w = s.staff(http.MethodPatch, base+"/reschedule", map[string]any{"date": tomorrow, "time": "17:00"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "already_terminal", decode(t, w)["error_code"])

	w = s.staff(http.MethodPatch, "/api/me/appointments/999/cancel", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaffQuickSaleAndHours(t *testing.T) {
	s := newServer(t)

	w := s.staff(http.MethodPost, "/api/me/quick-sales", map[string]any{
		"client_name": "Balcão",
		"items":       []map[string]any{{"catalog_item_id": s.productID(), "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := decode(t, w)
	assert.Equal(t, "quick_sale", sale["origin"])
	assert.Equal(t, 40.0, sale["price"])

	w = s.staff(http.MethodPut, "/api/me/operating-hours", map[string]any{
		"days": []map[string]any{
			{"day_of_week": 5, "start_time": "10:00", "end_time": "12:00", "slot_duration": 60},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.staff(http.MethodGet, "/api/me/availability?date="+tomorrow, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"`+tomorrow+`","slots":["10:00","11:00"]}`, w.Body.String())

	w = s.staff(http.MethodGet, "/api/me/operating-hours", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var week []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &week))
	assert.Len(t, week, 1)

	w = s.staff(http.MethodPut, "/api/me/operating-hours", map[string]any{
		"days": []map[string]any{
			{"day_of_week": 5, "start_time": "12:00", "end_time": "10:00"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_operating_hours", decode(t, w)["error_code"])
}

func TestTenantSettings(t *testing.T) {
	s := newServer(t)

	w := s.staff(http.MethodPatch, "/api/me/tenant", map[string]any{"timezone": "Mars/Olympus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.staff(http.MethodPatch, "/api/me/tenant", map[string]any{"min_advance_minutes": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.staff(http.MethodPatch, "/api/me/tenant", map[string]any{"min_advance_minutes": 120})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.staff(http.MethodGet, "/api/me/tenant", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(120), decode(t, w)["min_advance_minutes"])
}

func TestRegisterAndLogin(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/auth/register", map[string]any{
		"tenant_name": "Studio Sul",
		"tenant_slug": "Studio-Sul",
		"name":        "Bia",
		"email":       "bia@studio.example.com",
		"password":    "segredo123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode(t, w)
	assert.NotEmpty(t, reg["token"])
	assert.Equal(t, "studio-sul", reg["tenant"].(map[string]any)["slug"])

	w = s.do(http.MethodPost, "/api/auth/register", map[string]any{
		"tenant_name": "Outro",
		"tenant_slug": "studio-sul",
		"name":        "Bia",
		"email":       "outra@studio.example.com",
		"password":    "segredo123",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slug_already_exists", decode(t, w)["error_code"])

	w = s.do(http.MethodPost, "/api/auth/login", map[string]any{
		"email": "BIA@studio.example.com", "password": "segredo123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	w = s.do(http.MethodGet, "/api/me", nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner", decode(t, w)["user"].(map[string]any)["role"])

	w = s.do(http.MethodPost, "/api/auth/login", map[string]any{
		"email": "bia@studio.example.com", "password": "errada",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
