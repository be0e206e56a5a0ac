package infra

import (
	"fmt"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and brings the
// schema up to date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates every table and then applies the patches
// AutoMigrate cannot express. Patches only run on Postgres; SQLite test
// databases get the plain tables.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// handle on its own (partial indexes). Each statement is guarded so re-running
// on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one open cierre per institution. A concurrent second Cerrar
		// fails with 23505 instead of opening a duplicate drawer.
		{"unique open cierre per institucion", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_cierres_abierto_institucion
    ON cierres (institucion_id)
    WHERE estado = 'abierto'`},
		// One active reservation per room, behind the room row lock.
		{"unique active reserva per habitacion", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_reservas_activa_habitacion
    ON reservas (habitacion_id)
    WHERE fecha_fin IS NULL AND fecha_anulacion IS NULL`},
		// Alert scanner and availability read active reservations constantly.
		{"partial index active reservas", `
CREATE INDEX IF NOT EXISTS idx_reservas_activas
    ON reservas (habitacion_id, fecha_inicio)
    WHERE fecha_fin IS NULL AND fecha_anulacion IS NULL`},
		// Settlement and closure scan unpaid movements / unswept payments.
		{"partial index movimientos pendientes", `
CREATE INDEX IF NOT EXISTS idx_movimientos_pendientes
    ON movimientos (visita_id)
    WHERE pago_id IS NULL AND anulado = false`},
		{"partial index pagos sin cierre", `
CREATE INDEX IF NOT EXISTS idx_pagos_sin_cierre
    ON pagos (institucion_id)
    WHERE cierre_id IS NULL`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
