package audit

import (
	"context"
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Filter narrows a tenant's audit trail. From and To are civil dates; To is
// inclusive.
type Filter struct {
	TenantID uint
	Action   string
	Entity   string
	EntityID *uint
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

// Normalize clamps paging to sane values.
func (f Filter) Normalize() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > maxPageSize {
		f.Limit = defaultPageSize
	}
	return f
}

// List returns one page of entries, newest first, and the total matching.
func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	f = f.Normalize()

	q := l.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("tenant_id = ?", f.TenantID)

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.EntityID != nil {
		q = q.Where("entity_id = ?", *f.EntityID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", f.To.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
