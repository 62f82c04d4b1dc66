// Package testutil opens throwaway stores for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/booking-engine/internal/db"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// NewDB returns a migrated in-memory sqlite database private to t. A single
// connection serializes transactions the way row locks would on postgres.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, dbpkg.Migrate(db))
	return db
}

// Fixture is a tenant with an owner, one professional and a 30 minute
// service, open Monday to Saturday 09:00-19:00 with lunch 12:00-13:00.
type Fixture struct {
	Tenant       models.Tenant
	Owner        models.User
	Professional models.User
	Service      models.CatalogItem
}

func Seed(t *testing.T, db *gorm.DB, tz string) Fixture {
	t.Helper()

	f := Fixture{}
	f.Tenant = models.Tenant{Name: "Barbearia Centro", Slug: "centro-" + uuid.NewString()[:8], Timezone: tz}
	require.NoError(t, db.Create(&f.Tenant).Error)

	f.Owner = models.User{
		TenantID: f.Tenant.ID, Name: "Dono", Email: uuid.NewString() + "@example.com",
		PasswordHash: "x", Role: models.RoleOwner,
	}
	require.NoError(t, db.Omit("Tenant").Create(&f.Owner).Error)
	require.NoError(t, db.Model(&f.Tenant).Update("owner_user_id", f.Owner.ID).Error)
	f.Tenant.OwnerUserID = &f.Owner.ID

	f.Professional = models.User{
		TenantID: f.Tenant.ID, Name: "Carlos", Email: uuid.NewString() + "@example.com",
		PasswordHash: "x", Role: models.RoleProfessional,
	}
	require.NoError(t, db.Omit("Tenant").Create(&f.Professional).Error)

	f.Service = models.CatalogItem{
		TenantID: f.Tenant.ID, Name: "Corte", Kind: models.CatalogKindService,
		DurationMin: 30, Price: 45, Active: true,
	}
	require.NoError(t, db.Create(&f.Service).Error)

	for dow := 1; dow <= 6; dow++ {
		require.NoError(t, db.Create(&models.OperatingHours{
			TenantID:     f.Tenant.ID,
			DayOfWeek:    dow,
			StartTime:    "09:00",
			EndTime:      "19:00",
			LunchStart:   "12:00",
			LunchEnd:     "13:00",
			SlotDuration: 30,
		}).Error)
	}
	return f
}

// Product adds a catalog product for line-item tests.
func Product(t *testing.T, db *gorm.DB, tenantID uint, name string, price float64) models.CatalogItem {
	t.Helper()
	p := models.CatalogItem{TenantID: tenantID, Name: name, Kind: models.CatalogKindProduct, Price: price, Active: true}
	require.NoError(t, db.Create(&p).Error)
	return p
}
