package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/testutil"
)

func (e *env) setStatus(t *testing.T, id uint, status string) (*models.Appointment, error) {
	t.Helper()
	return NewSetAppointmentStatus(e.deps).Execute(e.ctx, SetAppointmentStatusInput{
		TenantID:      e.fx.Tenant.ID,
		AppointmentID: id,
		Status:        status,
	})
}

func TestSetStatusCompletedStampsAndRevertClears(t *testing.T) {
	e := newEnv(t)
	ap := e.book(t, tomorrow, "10:00")

	done, err := e.setStatus(t, ap.ID, "completed")
	require.NoError(t, err)
	require.NotNil(t, done.ConcludedAt)
	assert.True(t, done.ConcludedAt.Equal(now))

	stored, err := e.repo.GetAppointment(e.ctx, e.fx.Tenant.ID, ap.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.ConcludedAt)

	reverted, err := e.setStatus(t, ap.ID, "confirmed")
	require.NoError(t, err)
	assert.Nil(t, reverted.ConcludedAt)

	stored, err = e.repo.GetAppointment(e.ctx, e.fx.Tenant.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", stored.Status)
	assert.Nil(t, stored.ConcludedAt)
}

func TestSetStatusWalksLifecycle(t *testing.T) {
	e := newEnv(t)
	ap := e.book(t, tomorrow, "10:00")

	for _, st := range []string{"confirmed", "em_atendimento", "completed"} {
		_, err := e.setStatus(t, ap.ID, st)
		require.NoError(t, err, st)
	}
}

func TestSetStatusRejectsInvalidMoves(t *testing.T) {
	e := newEnv(t)
	ap := e.book(t, tomorrow, "10:00")

	_, err := e.setStatus(t, ap.ID, "finished")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = NewCancelAppointment(e.deps).Execute(e.ctx, e.fx.Tenant.ID, e.fx.Owner.ID, ap.ID)
	require.NoError(t, err)

	_, err = e.setStatus(t, ap.ID, "completed")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = e.setStatus(t, 9999, "confirmed")
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
}

func TestCancelFreesSlot(t *testing.T) {
	e := newEnv(t)
	ap := e.book(t, tomorrow, "10:00")
	require.NotContains(t, e.slots(t, tomorrow), "10:00")

	_, err := NewCancelAppointment(e.deps).Execute(e.ctx, e.fx.Tenant.ID, e.fx.Owner.ID, ap.ID)
	require.NoError(t, err)

	assert.Contains(t, e.slots(t, tomorrow), "10:00")

	in := e.bookingInput(tomorrow, "10:00")
	in.ClientPhone = "+55 11 97777-0000"
	_, err = NewCreateAppointment(e.deps).Execute(e.ctx, in)
	assert.NoError(t, err)
}

func TestCompleteSettlesBasePlusLines(t *testing.T) {
	e := newEnv(t)
	pomada := testutil.Product(t, e.db, e.fx.Tenant.ID, "Pomada", 10)
	agua := testutil.Product(t, e.db, e.fx.Tenant.ID, "Água", 5)
	ap := e.book(t, tomorrow, "10:00")

	done, err := NewCompleteAppointment(e.deps).Execute(e.ctx, CompleteAppointmentInput{
		TenantID:      e.fx.Tenant.ID,
		AppointmentID: ap.ID,
		LineItems: []domain.LineItemInput{
			{CatalogItemID: pomada.ID, Quantity: 2},
			{CatalogItemID: agua.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, done.Price)
	assert.Equal(t, 70.0, *done.Price)
	assert.NotNil(t, done.ConcludedAt)

	items, err := e.repo.ListLineItems(e.ctx, ap.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 10.0, items[0].UnitPrice)

	// completing again with a new set replaces, never appends
	_, err = NewCompleteAppointment(e.deps).Execute(e.ctx, CompleteAppointmentInput{
		TenantID:      e.fx.Tenant.ID,
		AppointmentID: ap.ID,
		LineItems:     []domain.LineItemInput{{CatalogItemID: agua.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	items, err = e.repo.ListLineItems(e.ctx, ap.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCompleteSettledPriceWins(t *testing.T) {
	e := newEnv(t)
	pomada := testutil.Product(t, e.db, e.fx.Tenant.ID, "Pomada", 10)
	ap := e.book(t, tomorrow, "10:00")
	price := 50.0

	done, err := NewCompleteAppointment(e.deps).Execute(e.ctx, CompleteAppointmentInput{
		TenantID:      e.fx.Tenant.ID,
		AppointmentID: ap.ID,
		SettledPrice:  &price,
		LineItems:     []domain.LineItemInput{{CatalogItemID: pomada.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, *done.Price)

	negative := -1.0
	_, err = NewCompleteAppointment(e.deps).Execute(e.ctx, CompleteAppointmentInput{
		TenantID:      e.fx.Tenant.ID,
		AppointmentID: ap.ID,
		SettledPrice:  &negative,
	})
	assert.ErrorIs(t, err, domain.ErrNegativePrice)
}

func TestCompleteRejectsUnknownCatalogItemBeforeWriting(t *testing.T) {
	e := newEnv(t)
	ap := e.book(t, tomorrow, "10:00")

	_, err := NewCompleteAppointment(e.deps).Execute(e.ctx, CompleteAppointmentInput{
		TenantID:      e.fx.Tenant.ID,
		AppointmentID: ap.ID,
		LineItems:     []domain.LineItemInput{{CatalogItemID: 999, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrCatalogItemNotFound)

	stored, err := e.repo.GetAppointment(e.ctx, e.fx.Tenant.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", stored.Status)
}

type failingLedgerRepo struct {
	domain.Repository
}

func (failingLedgerRepo) ReplaceLineItems(context.Context, uint, []models.AppointmentLineItem) error {
	return errors.New("line items table unavailable")
}

func TestCompleteLedgerFailureIsSoft(t *testing.T) {
	e := newEnv(t)
	pomada := testutil.Product(t, e.db, e.fx.Tenant.ID, "Pomada", 10)
	ap := e.book(t, tomorrow, "10:00")

	core, logs := observer.New(zap.WarnLevel)
	d := e.deps
	d.Repo = failingLedgerRepo{Repository: e.repo}
	d.Logger = zap.New(core)

	done, err := NewCompleteAppointment(d).Execute(e.ctx, CompleteAppointmentInput{
		TenantID:      e.fx.Tenant.ID,
		AppointmentID: ap.ID,
		LineItems:     []domain.LineItemInput{{CatalogItemID: pomada.ID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	assert.Equal(t, 55.0, *done.Price)
	assert.Equal(t, 1, logs.FilterMessage("line items not saved after status change").Len())

	items, err := e.repo.ListLineItems(e.ctx, ap.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
