package appointment

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/infra/cache"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

func TestCreateAppointmentPublicStartsPending(t *testing.T) {
	e := newEnv(t)

	ap := e.book(t, tomorrow, "10:00")

	assert.NotZero(t, ap.ID)
	assert.Equal(t, string(domain.StatusPending), ap.Status)
	assert.Equal(t, models.OriginSite, ap.Origin)
	assert.Nil(t, ap.ConcludedAt)

	var c models.Client
	require.NoError(t, e.db.First(&c, ap.ClientID).Error)
	assert.Equal(t, e.fx.Tenant.ID, c.TenantID)
	require.NotNil(t, c.OwnerUserID)
	assert.Equal(t, e.fx.Owner.ID, *c.OwnerUserID)
	assert.Equal(t, "+5511999991234", c.Phone)
}

func TestCreateAppointmentStaffStartsConfirmed(t *testing.T) {
	e := newEnv(t)
	in := e.bookingInput(tomorrow, "09:00")
	in.StaffBooked = true
	in.ClientPhone = ""

	ap, err := NewCreateAppointment(e.deps).Execute(e.ctx, in)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), ap.Status)
	assert.Equal(t, models.OriginManual, ap.Origin)
}

func TestCreateAppointmentRejectsTakenSlot(t *testing.T) {
	e := newEnv(t)
	e.book(t, tomorrow, "10:00")

	in := e.bookingInput(tomorrow, "10:00")
	in.ClientPhone = "+55 11 98888-0000"
	_, err := NewCreateAppointment(e.deps).Execute(e.ctx, in)

	assert.ErrorIs(t, err, domain.ErrSlotNoLongerAvailable)
}

func TestCreateAppointmentRejectsUnofferedTimes(t *testing.T) {
	e := newEnv(t)
	uc := NewCreateAppointment(e.deps)

	for _, tc := range []struct{ date, clock string }{
		{tomorrow, "12:00"},     // lunch
		{tomorrow, "10:10"},     // off grid
		{tomorrow, "18:45"},     // would overrun closing
		{today, "14:00"},        // already past
		{sunday, "10:00"},       // closed
		{"2026-10-14", "10:00"}, // yesterday
	} {
		_, err := uc.Execute(e.ctx, e.bookingInput(tc.date, tc.clock))
		assert.ErrorIs(t, err, domain.ErrSlotNoLongerAvailable, "%s %s", tc.date, tc.clock)
	}

	var count int64
	require.NoError(t, e.db.Model(&models.Appointment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateAppointmentHistoryIgnoresNow(t *testing.T) {
	e := newEnv(t)
	in := e.bookingInput("2026-10-14", "10:00")
	in.StaffBooked = true
	in.Origin = models.OriginManualHistory

	ap, err := NewCreateAppointment(e.deps).Execute(e.ctx, in)

	require.NoError(t, err)
	assert.Equal(t, models.OriginManualHistory, ap.Origin)
}

func TestCreateAppointmentValidation(t *testing.T) {
	e := newEnv(t)
	uc := NewCreateAppointment(e.deps)
	stranger := uint(999)

	tests := []struct {
		name   string
		mutate func(*CreateAppointmentInput)
		want   error
	}{
		{"missing name", func(in *CreateAppointmentInput) { in.ClientName = "  " }, domain.ErrClientNameRequired},
		{"anonymous without phone", func(in *CreateAppointmentInput) { in.ClientPhone = "" }, domain.ErrClientPhoneMissing},
		{"bad time", func(in *CreateAppointmentInput) { in.Time = "25:00" }, domain.ErrInvalidDateOrTime},
		{"bad date", func(in *CreateAppointmentInput) { in.Date = "2026-13-01" }, domain.ErrInvalidDateOrTime},
		{"unknown service", func(in *CreateAppointmentInput) { in.ServiceID = 999 }, domain.ErrServiceNotFound},
		{"foreign professional", func(in *CreateAppointmentInput) { in.ProfessionalID = &stranger }, domain.ErrProfessionalNotFound},
		{"quick sale origin", func(in *CreateAppointmentInput) { in.Origin = models.OriginQuickSale }, domain.ErrInvalidOrigin},
		{"unknown tenant", func(in *CreateAppointmentInput) { in.TenantID = 999 }, domain.ErrTenantNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := e.bookingInput(tomorrow, "10:00")
			tt.mutate(&in)
			_, err := uc.Execute(e.ctx, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateAppointmentConcurrentSameSlot(t *testing.T) {
	e := newEnv(t)
	uc := NewCreateAppointment(e.deps)

	const callers = 2
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := e.bookingInput(tomorrow, "15:00")
			in.ClientPhone = []string{"+55 11 90000-0001", "+55 11 90000-0002"}[i]
			_, errs[i] = uc.Execute(e.ctx, in)
		}(i)
	}
	wg.Wait()

	var ok, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrSlotNoLongerAvailable):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, lost)
}

func TestCreateAppointmentSameCustomerAcrossIdentity(t *testing.T) {
	e := newEnv(t)
	uc := NewCreateAppointment(e.deps)

	first := e.book(t, tomorrow, "09:00")

	in := e.bookingInput(tomorrow, "09:30")
	in.ClientPhone = "+5511999991234"
	in.Identity = "cust-42"
	second, err := uc.Execute(e.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ClientID, second.ClientID)

	// identity alone now finds the same row
	in = e.bookingInput(tomorrow, "10:00")
	in.ClientPhone = ""
	in.Identity = "cust-42"
	third, err := uc.Execute(e.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ClientID, third.ClientID)

	var count int64
	require.NoError(t, e.db.Model(&models.Client{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateAppointmentIdempotencyKey(t *testing.T) {
	e := newEnv(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	e.deps.Idempotency = cache.NewIdempotencyStore(rdb, time.Hour, nil)
	uc := NewCreateAppointment(e.deps)

	in := e.bookingInput(tomorrow, "11:00")
	in.IdempotencyKey = "retry-me"

	first, err := uc.Execute(e.ctx, in)
	require.NoError(t, err)
	again, err := uc.Execute(e.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// a failed attempt releases its key
	in = e.bookingInput(tomorrow, "11:00")
	in.IdempotencyKey = "other"
	_, err = uc.Execute(e.ctx, in)
	require.ErrorIs(t, err, domain.ErrSlotNoLongerAvailable)
	in.Time = "11:30"
	_, err = uc.Execute(e.ctx, in)
	assert.NoError(t, err)
}

func TestCreateAppointmentInvalidatesAvailabilityCache(t *testing.T) {
	e := newEnv(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	e.deps.Cache = cache.NewAvailabilityCache(rdb, time.Minute, nil)

	before := e.slots(t, tomorrow)
	require.Contains(t, before, "16:00")
	assert.Equal(t, before, e.slots(t, tomorrow))

	e.book(t, tomorrow, "16:00")

	assert.NotContains(t, e.slots(t, tomorrow), "16:00")
}
