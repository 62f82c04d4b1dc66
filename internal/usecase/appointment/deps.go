package appointment

import (
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/infra/cache"
	"github.com/BruksfildServices01/booking-engine/internal/observability/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

var tracer = otel.Tracer("github.com/BruksfildServices01/booking-engine/internal/usecase/appointment")

// Deps is what every booking use case is built from. Only Repo is required;
// the rest degrade to no-ops when nil.
type Deps struct {
	Repo        domain.Repository
	Cache       *cache.AvailabilityCache
	Idempotency *cache.IdempotencyStore
	Audit       *audit.Dispatcher
	Metrics     *metrics.BookingMetrics
	Logger      *zap.Logger
	Clock       timezone.Clock
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Clock == nil {
		d.Clock = timezone.SystemClock{}
	}
	return d
}
