package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
)

// pgUniqueViolation is the SQLSTATE postgres raises for unique index hits.
const pgUniqueViolation = "23505"

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// Transaction binds a copy of the repository to one database transaction.
// Nested calls become savepoints.
func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error, mapped error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return mapped
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
