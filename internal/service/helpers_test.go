package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/clock"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

var t0 = time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

// fixture is one institution with a category at 10000/h, one free room and
// the full service graph over a shared database and fake clock.
type fixture struct {
	t    *testing.T
	ctx  context.Context
	db   *gorm.DB
	clk  *clock.Fake
	inst uuid.UUID

	categoria  *model.Categoria
	habitacion *model.Habitacion
	efectivo   *model.MedioPago

	inventario     InventarioService
	ocupacion      OcupacionService
	consumo        ConsumoService
	pago           PagoService
	cierre         CierreService
	disponibilidad DisponibilidadService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		t:    t,
		ctx:  context.Background(),
		db:   db,
		clk:  clock.NewFake(t0),
		inst: uuid.New(),
	}

	habitaciones := repository.NewHabitacionRepository(db)
	reservas := repository.NewReservaRepository(db)
	movimientos := repository.NewMovimientoRepository(db)
	articulos := repository.NewArticuloRepository(db)
	pagos := repository.NewPagoRepository(db)

	f.inventario = NewInventarioService(repository.NewInventarioRepository(db), articulos)
	tarifas := NewTarifaService(repository.NewTarifaRepository(db))
	f.ocupacion = NewOcupacionService(habitaciones, reservas, movimientos, tarifas, f.inventario, f.clk, time.UTC)
	f.consumo = NewConsumoService(movimientos, reservas, articulos, f.inventario, nil)
	f.pago = NewPagoService(pagos, movimientos, reservas, f.clk)
	f.cierre = NewCierreService(repository.NewCierreRepository(db), pagos, f.clk, nil)
	f.disponibilidad = NewDisponibilidadService(habitaciones, reservas, f.clk, time.UTC, 30*time.Minute)

	f.categoria = &model.Categoria{
		InstitucionID: f.inst, Nombre: "Suite", PrecioNormal: decimal.NewFromInt(10000), Activo: true,
	}
	f.create(f.categoria)
	f.habitacion = f.crearHabitacion("101")
	f.efectivo = &model.MedioPago{InstitucionID: f.inst, Nombre: "Efectivo", Activo: true}
	f.create(f.efectivo)
	return f
}

func (f *fixture) create(v interface{}) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(v).Error)
}

func (f *fixture) crearHabitacion(nombre string) *model.Habitacion {
	f.t.Helper()
	h := &model.Habitacion{InstitucionID: f.inst, Nombre: nombre, CategoriaID: f.categoria.ID, Disponible: true}
	f.create(h)
	return h
}

func (f *fixture) crearArticulo(nombre string, precio int64) *model.Articulo {
	f.t.Helper()
	a := &model.Articulo{InstitucionID: f.inst, Nombre: nombre, Precio: decimal.NewFromInt(precio)}
	f.create(a)
	return a
}

func (f *fixture) stock(art *model.Articulo, enHabitacion, general int) {
	f.t.Helper()
	f.create(&model.Inventario{
		InstitucionID: f.inst, HabitacionID: f.habitacion.ID, ArticuloID: art.ID, Cantidad: enHabitacion,
	})
	f.create(&model.InventarioGeneral{InstitucionID: f.inst, ArticuloID: art.ID, Cantidad: general})
}

// niveles returns the room and general quantities of art.
func (f *fixture) niveles(art *model.Articulo) (int, int) {
	f.t.Helper()
	var inv model.Inventario
	require.NoError(f.t, f.db.First(&inv, "habitacion_id = ? AND articulo_id = ?", f.habitacion.ID, art.ID).Error)
	var gen model.InventarioGeneral
	require.NoError(f.t, f.db.First(&gen, "institucion_id = ? AND articulo_id = ?", f.inst, art.ID).Error)
	return inv.Cantidad, gen.Cantidad
}

func (f *fixture) reservar(horas, minutos int) *dto.ReservaResponse {
	f.t.Helper()
	r, err := f.ocupacion.Reservar(f.ctx, f.inst, dto.ReservarRequest{
		HabitacionID: f.habitacion.ID.String(), Horas: horas, Minutos: minutos,
	})
	require.NoError(f.t, err)
	return r
}

func (f *fixture) reserva(id string) *model.Reserva {
	f.t.Helper()
	var r model.Reserva
	require.NoError(f.t, f.db.First(&r, "id = ?", id).Error)
	return &r
}

func (f *fixture) movimiento(id string) *model.Movimiento {
	f.t.Helper()
	var m model.Movimiento
	require.NoError(f.t, f.db.Preload("Consumos").First(&m, "id = ?", id).Error)
	return &m
}

func (f *fixture) habitacionActual() *model.Habitacion {
	f.t.Helper()
	var h model.Habitacion
	require.NoError(f.t, f.db.First(&h, "id = ?", f.habitacion.ID).Error)
	return &h
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func assertMonto(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
