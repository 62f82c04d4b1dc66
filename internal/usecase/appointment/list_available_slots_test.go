package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

func TestListAvailableSlotsSkipsLunch(t *testing.T) {
	e := newEnv(t)

	slots := e.slots(t, tomorrow)

	require.Len(t, slots, 18)
	i := indexOf(slots, "11:30")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "13:00", slots[i+1])
	assert.NotContains(t, slots, "12:00")
	assert.NotContains(t, slots, "12:30")
}

func TestListAvailableSlotsCutsTodayAtNow(t *testing.T) {
	e := newEnv(t)

	slots := e.slots(t, today)

	require.NotEmpty(t, slots)
	assert.Equal(t, "14:30", slots[0])
	assert.NotContains(t, slots, "14:00")
}

func TestListAvailableSlotsMinimumAdvance(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.db.Model(&e.fx.Tenant).Update("min_advance_minutes", 60).Error)

	slots := e.slots(t, today)
	require.NotEmpty(t, slots)
	assert.Equal(t, "15:30", slots[0])

	// only today is cut
	assert.Equal(t, "09:00", e.slots(t, tomorrow)[0])
}

func TestListAvailableSlotsClosedAndPast(t *testing.T) {
	e := newEnv(t)

	assert.Empty(t, e.slots(t, sunday))
	assert.Empty(t, e.slots(t, "2026-10-14"))

	require.NoError(t, e.db.Where("tenant_id = ?", e.fx.Tenant.ID).Delete(&models.OperatingHours{}).Error)
	out := e.slots(t, tomorrow)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestListAvailableSlotsClosedFlag(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.db.Model(&models.OperatingHours{}).
		Where("tenant_id = ? AND day_of_week = ?", e.fx.Tenant.ID, 5).
		Update("is_closed", true).Error)

	assert.Empty(t, e.slots(t, tomorrow))
}

func TestListAvailableSlotsProfessionalOverride(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.db.Create(&models.OperatingHours{
		TenantID:       e.fx.Tenant.ID,
		ProfessionalID: e.pro(),
		DayOfWeek:      5,
		StartTime:      "13:00",
		EndTime:        "15:00",
		SlotDuration:   30,
	}).Error)

	assert.Equal(t, []string{"13:00", "13:30", "14:00", "14:30"}, e.slots(t, tomorrow))

	general, err := NewListAvailableSlots(e.deps).Execute(e.ctx, ListAvailableSlotsInput{
		TenantID: e.fx.Tenant.ID,
		Date:     tomorrow,
	})
	require.NoError(t, err)
	assert.Len(t, general, 18)
}

func TestListAvailableSlotsExcludesBooking(t *testing.T) {
	e := newEnv(t)
	e.book(t, tomorrow, "10:00")

	slots := e.slots(t, tomorrow)

	assert.NotContains(t, slots, "10:00")
	assert.Contains(t, slots, "09:30")
	assert.Contains(t, slots, "10:30")
}

func TestListAvailableSlotsErrors(t *testing.T) {
	e := newEnv(t)
	uc := NewListAvailableSlots(e.deps)

	_, err := uc.Execute(e.ctx, ListAvailableSlotsInput{TenantID: 999, Date: tomorrow})
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)

	_, err = uc.Execute(e.ctx, ListAvailableSlotsInput{TenantID: e.fx.Tenant.ID, Date: "16/10/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidDateOrTime)

	stranger := uint(999)
	_, err = uc.Execute(e.ctx, ListAvailableSlotsInput{TenantID: e.fx.Tenant.ID, ProfessionalID: &stranger, Date: tomorrow})
	assert.ErrorIs(t, err, domain.ErrProfessionalNotFound)
}

func indexOf(xs []string, v string) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}
