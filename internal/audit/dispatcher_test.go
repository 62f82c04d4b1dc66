package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/testutil"
)

func TestDispatcherPersistsEvents(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db), zaptest.NewLogger(t))

	id := uint(12)
	d.Dispatch(Event{
		TenantID: 3,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &id,
		Metadata: map[string]string{"origin": "site"},
	})
	d.Close()

	var rows []models.AuditLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(3), rows[0].TenantID)
	assert.Equal(t, "appointment_created", rows[0].Action)
	assert.JSONEq(t, `{"origin":"site"}`, rows[0].Metadata)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}
