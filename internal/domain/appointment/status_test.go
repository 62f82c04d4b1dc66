package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusInService, true},
		{StatusInService, StatusCompleted, true},
		{StatusPending, StatusCanceled, true},
		{StatusInService, StatusCanceled, true},
		{StatusPending, StatusInService, true},
		{StatusPending, StatusCompleted, true},
		{StatusConfirmed, StatusPending, true},
		{StatusInService, StatusConfirmed, true},
		{StatusInService, StatusPending, false},
		{StatusCompleted, StatusPending, true},
		{StatusCompleted, StatusConfirmed, true},
		{StatusCompleted, StatusCompleted, true},
		{StatusCompleted, StatusCanceled, false},
		{StatusCompleted, StatusInService, false},
		{StatusCanceled, StatusCompleted, false},
		{StatusCanceled, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := CanTransition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestTransitionMaintainsConcludedAt(t *testing.T) {
	now := time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusConfirmed)}

	require.NoError(t, Complete(ap, now))
	require.NotNil(t, ap.ConcludedAt)
	assert.True(t, ap.ConcludedAt.Equal(now))

	require.NoError(t, Transition(ap, StatusPending, now.Add(time.Hour)))
	assert.Nil(t, ap.ConcludedAt)
	assert.Equal(t, string(StatusPending), ap.Status)
}

func TestCancelIsTerminal(t *testing.T) {
	now := time.Now()
	ap := &models.Appointment{Status: string(StatusPending)}

	require.NoError(t, Cancel(ap, now))
	assert.Nil(t, ap.ConcludedAt)
	assert.ErrorIs(t, Complete(ap, now), ErrInvalidTransition)
	assert.ErrorIs(t, Reschedule(ap, "2026-10-20", "10:00"), ErrAlreadyTerminal)
}

func TestRescheduleRejectsCompleted(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusCompleted), Date: "2026-10-15", Time: "09:00"}

	assert.ErrorIs(t, Reschedule(ap, "2026-10-16", "10:00"), ErrAlreadyTerminal)
	assert.Equal(t, "2026-10-15", ap.Date)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("em_atendimento")
	require.NoError(t, err)
	assert.Equal(t, StatusInService, st)

	_, err = ParseStatus("scheduled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusConfirmed, InitialStatus(true))
	assert.Equal(t, StatusPending, InitialStatus(false))
}
