package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/infra/repository"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/testutil"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

const (
	today    = "2026-10-15" // Thursday
	tomorrow = "2026-10-16" // Friday
	sunday   = "2026-10-18"
)

// 17:05 UTC is 14:05 in São Paulo.
var now = time.Date(2026, 10, 15, 17, 5, 0, 0, time.UTC)

type env struct {
	ctx  context.Context
	db   *gorm.DB
	repo *repository.AppointmentGormRepository
	fx   testutil.Fixture
	deps Deps
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db, "America/Sao_Paulo")
	repo := repository.NewAppointmentGormRepository(db)

	return &env{
		ctx:  context.Background(),
		db:   db,
		repo: repo,
		fx:   fx,
		deps: Deps{
			Repo:   repo,
			Logger: zaptest.NewLogger(t),
			Clock:  timezone.FixedClock{At: now},
		},
	}
}

func (e *env) pro() *uint {
	id := e.fx.Professional.ID
	return &id
}

func (e *env) book(t *testing.T, date, clock string) *models.Appointment {
	t.Helper()
	ap, err := NewCreateAppointment(e.deps).Execute(e.ctx, e.bookingInput(date, clock))
	require.NoError(t, err)
	return ap
}

func (e *env) bookingInput(date, clock string) CreateAppointmentInput {
	return CreateAppointmentInput{
		TenantID:       e.fx.Tenant.ID,
		ProfessionalID: e.pro(),
		ServiceID:      e.fx.Service.ID,
		ClientName:     "Maria",
		ClientPhone:    "+55 11 99999-1234",
		Date:           date,
		Time:           clock,
	}
}

func (e *env) slots(t *testing.T, date string) []string {
	t.Helper()
	out, err := NewListAvailableSlots(e.deps).Execute(e.ctx, ListAvailableSlotsInput{
		TenantID:       e.fx.Tenant.ID,
		ProfessionalID: e.pro(),
		Date:           date,
	})
	require.NoError(t, err)
	return out
}
