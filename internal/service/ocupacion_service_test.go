package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReservar_TwoAndAHalfHours(t *testing.T) {
	f := newFixture(t)

	r := f.reservar(2, 30)

	assertMonto(t, "25000.00", r.ImporteHabitacion)
	assertMonto(t, "10000.00", r.Tarifa)
	assert.Equal(t, model.ReservaActiva, r.Estado)
	require.NotNil(t, r.MovimientoID)
	assertMonto(t, "25000.00", f.movimiento(*r.MovimientoID).TotalFacturado)

	hab := f.habitacionActual()
	assert.False(t, hab.Disponible)
	require.NotNil(t, hab.VisitaID)
	assert.Equal(t, r.VisitaID, hab.VisitaID.String())
}

func TestReservar_HabitacionOcupada(t *testing.T) {
	f := newFixture(t)
	f.reservar(1, 0)

	_, err := f.ocupacion.Reservar(f.ctx, f.inst, dto.ReservarRequest{HabitacionID: f.habitacion.ID.String(), Horas: 1})
	assert.ErrorIs(t, err, ErrHabitacionNoDisponible)

	var n int64
	f.db.Model(&model.Reserva{}).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestReservar_HabitacionDeOtraInstitucion(t *testing.T) {
	f := newFixture(t)

	_, err := f.ocupacion.Reservar(f.ctx, uuid.New(), dto.ReservarRequest{HabitacionID: f.habitacion.ID.String(), Horas: 1})
	assert.ErrorIs(t, err, ErrHabitacionNoEncontrada)

	_, err = f.ocupacion.Reservar(f.ctx, f.inst, dto.ReservarRequest{HabitacionID: uuid.NewString(), Horas: 1})
	assert.ErrorIs(t, err, ErrHabitacionNoEncontrada)
}

func TestReservar_DuracionCero(t *testing.T) {
	f := newFixture(t)

	_, err := f.ocupacion.Reservar(f.ctx, f.inst, dto.ReservarRequest{HabitacionID: f.habitacion.ID.String()})
	assert.ErrorIs(t, err, ErrDuracionInvalida)
	assert.True(t, f.habitacionActual().Disponible)
}

func TestReservar_Promocion(t *testing.T) {
	f := newFixture(t)
	promo := &model.Promocion{
		InstitucionID: f.inst, CategoriaID: f.categoria.ID, Nombre: "Noche", Tarifa: decimal.NewFromInt(8000), Activo: true,
	}
	f.create(promo)
	promoID := promo.ID.String()

	r, err := f.ocupacion.Reservar(f.ctx, f.inst, dto.ReservarRequest{
		HabitacionID: f.habitacion.ID.String(), Horas: 3, PromocionID: &promoID,
	})
	require.NoError(t, err)
	assertMonto(t, "24000.00", r.ImporteHabitacion)
	require.NotNil(t, r.PromocionID)
	assert.Equal(t, promoID, *r.PromocionID)
}

func TestReservar_PromocionDeOtraCategoria(t *testing.T) {
	f := newFixture(t)
	otra := &model.Categoria{InstitucionID: f.inst, Nombre: "Standard", PrecioNormal: decimal.NewFromInt(6000), Activo: true}
	f.create(otra)
	promo := &model.Promocion{InstitucionID: f.inst, CategoriaID: otra.ID, Nombre: "Promo", Tarifa: decimal.NewFromInt(1), Activo: true}
	f.create(promo)
	promoID := promo.ID.String()

	_, err := f.ocupacion.Reservar(f.ctx, f.inst, dto.ReservarRequest{
		HabitacionID: f.habitacion.ID.String(), Horas: 1, PromocionID: &promoID,
	})
	assert.ErrorIs(t, err, ErrPromocionInvalida)
	assert.True(t, f.habitacionActual().Disponible)
}

func TestPausar_OverwritesPreviousPause(t *testing.T) {
	f := newFixture(t)
	r := f.reservar(3, 0)
	visita := mustUUID(t, r.VisitaID)

	f.clk.Advance(30 * time.Minute)
	_, err := f.ocupacion.Pausar(f.ctx, f.inst, visita)
	require.NoError(t, err)
	stored := f.reserva(r.ID)
	require.NotNil(t, stored.PausaMinutos)
	assert.Equal(t, 0, *stored.PausaHoras)
	assert.Equal(t, 30, *stored.PausaMinutos)

	// Second pause without resuming: 50m elapsed minus the stored 30m.
	f.clk.Advance(20 * time.Minute)
	_, err = f.ocupacion.Pausar(f.ctx, f.inst, visita)
	require.NoError(t, err)
	stored = f.reserva(r.ID)
	assert.Equal(t, 20, *stored.PausaMinutos)

	estado, err := f.ocupacion.Estado(f.ctx, f.inst, stored.ID)
	require.NoError(t, err)
	assert.True(t, estado.Pausada)
	assert.Equal(t, 20, estado.MinutosTranscurridos)
	assert.Equal(t, model.ReservaPausada, estado.Reserva.Estado)
}

func TestReanudar(t *testing.T) {
	f := newFixture(t)
	r := f.reservar(1, 0)
	visita := mustUUID(t, r.VisitaID)

	_, err := f.ocupacion.Reanudar(f.ctx, f.inst, visita)
	assert.ErrorIs(t, err, ErrReservaNoPausada)

	f.clk.Advance(10 * time.Minute)
	_, err = f.ocupacion.Pausar(f.ctx, f.inst, visita)
	require.NoError(t, err)
	resp, err := f.ocupacion.Reanudar(f.ctx, f.inst, visita)
	require.NoError(t, err)
	assert.Equal(t, model.ReservaActiva, resp.Estado)

	stored := f.reserva(r.ID)
	assert.Nil(t, stored.PausaHoras)
	assert.Nil(t, stored.PausaMinutos)
}

func TestFinalizar_LiberaHabitacion(t *testing.T) {
	f := newFixture(t)
	r := f.reservar(2, 0)

	f.clk.Advance(90 * time.Minute)
	resp, err := f.ocupacion.Finalizar(f.ctx, f.inst, f.habitacion.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservaFinalizada, resp.Estado)
	require.NotNil(t, resp.FechaFin)

	hab := f.habitacionActual()
	assert.True(t, hab.Disponible)
	assert.Nil(t, hab.VisitaID)

	// Checkout does not settle: the room charge stays pending.
	assert.Nil(t, f.movimiento(*r.MovimientoID).PagoID)

	_, err = f.ocupacion.Finalizar(f.ctx, f.inst, f.habitacion.ID)
	assert.ErrorIs(t, err, ErrHabitacionSinVisita)

	estado, err := f.ocupacion.Estado(f.ctx, f.inst, mustUUID(t, r.ID))
	require.NoError(t, err)
	assert.Equal(t, 90, estado.MinutosTranscurridos)
	assert.Zero(t, estado.MinutosRestantes)
	assertMonto(t, "20000.00", estado.TotalPendiente)
}

func TestAnular_RestauraStockYLiberaHabitacion(t *testing.T) {
	f := newFixture(t)
	agua := f.crearArticulo("Agua", 1500)
	f.stock(agua, 1, 5)
	r := f.reservar(2, 0)
	movID := mustUUID(t, *r.MovimientoID)

	_, err := f.consumo.Registrar(f.ctx, f.inst, movID, dto.RegistrarConsumoRequest{
		Items: []dto.ConsumoItemRequest{{ArticuloID: agua.ID.String(), Cantidad: 3}},
	})
	require.NoError(t, err)
	hab, gen := f.niveles(agua)
	require.Equal(t, 0, hab)
	require.Equal(t, 3, gen)

	f.clk.Advance(15 * time.Minute)
	resp, err := f.ocupacion.Anular(f.ctx, f.inst, mustUUID(t, r.ID), "  cliente se retiro  ")
	require.NoError(t, err)
	assert.Equal(t, model.ReservaAnulada, resp.Estado)
	require.NotNil(t, resp.MotivoAnulacion)
	assert.Equal(t, "cliente se retiro", *resp.MotivoAnulacion)

	hab, gen = f.niveles(agua)
	assert.Equal(t, 1, hab)
	assert.Equal(t, 5, gen)

	mov := f.movimiento(movID.String())
	assert.True(t, mov.Anulado)
	require.Len(t, mov.Consumos, 1)
	assert.True(t, mov.Consumos[0].Anulado)

	habitacion := f.habitacionActual()
	assert.True(t, habitacion.Disponible)
	assert.Nil(t, habitacion.VisitaID)

	var visita model.Visita
	require.NoError(t, f.db.First(&visita, "id = ?", r.VisitaID).Error)
	assert.True(t, visita.Anulado)

	var registros []model.Registro
	require.NoError(t, f.db.Find(&registros, "reserva_id = ?", r.ID).Error)
	require.Len(t, registros, 1)
	assert.Equal(t, "anulacion_ocupacion", registros[0].Tipo)
	assert.Contains(t, registros[0].Contenido, "101")
	assert.Contains(t, registros[0].Contenido, "cliente se retiro")

	_, err = f.ocupacion.Anular(f.ctx, f.inst, mustUUID(t, r.ID), "otra vez")
	assert.ErrorIs(t, err, ErrReservaTerminal)
}

func TestAnular_MotivoDemasiadoLargo(t *testing.T) {
	f := newFixture(t)
	r := f.reservar(1, 0)

	_, err := f.ocupacion.Anular(f.ctx, f.inst, mustUUID(t, r.ID), strings.Repeat("ñ", 151))
	assert.ErrorIs(t, err, ErrMotivoInvalido)
	assert.Equal(t, model.ReservaActiva, f.reserva(r.ID).Estado())

	_, err = f.ocupacion.Anular(f.ctx, f.inst, mustUUID(t, r.ID), strings.Repeat("ñ", 150))
	assert.NoError(t, err)
}

func TestAnular_MovimientoPagadoBloquea(t *testing.T) {
	f := newFixture(t)
	r := f.reservar(1, 0)
	_, err := f.pago.Pagar(f.ctx, f.inst, mustUUID(t, r.VisitaID), dto.PagarRequest{
		MedioPagoID: f.efectivo.ID.String(), MontoEfectivo: dec("10000"),
	})
	require.NoError(t, err)

	_, err = f.ocupacion.Anular(f.ctx, f.inst, mustUUID(t, r.ID), "error de carga")
	assert.ErrorIs(t, err, ErrMovimientoPagado)

	assert.Equal(t, model.ReservaActiva, f.reserva(r.ID).Estado())
	assert.False(t, f.movimiento(*r.MovimientoID).Anulado)
	assert.False(t, f.habitacionActual().Disponible)
}

func TestReservar_AdicionalPorPersonasExtra(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(f.categoria).Updates(map[string]interface{}{
		"capacidad_maxima": 2, "porcentaje_adicional": decimal.NewFromInt(25),
	}).Error)

	r, err := f.ocupacion.Reservar(f.ctx, f.inst, dto.ReservarRequest{
		HabitacionID: f.habitacion.ID.String(), Horas: 2, Personas: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, r.Personas)
	assertMonto(t, "10000.00", r.Tarifa)
	assertMonto(t, "30000.00", r.ImporteHabitacion)
	assertMonto(t, "30000.00", f.movimiento(*r.MovimientoID).TotalFacturado)

	// Re-pricing keeps the declared guests.
	ext, err := f.ocupacion.ExtenderTiempo(f.ctx, f.inst, mustUUID(t, r.ID), 1, 0)
	require.NoError(t, err)
	assertMonto(t, "45000.00", ext.ImporteHabitacion)
	assertMonto(t, "45000.00", f.movimiento(*r.MovimientoID).TotalFacturado)
}

// restauracionFallida fails the n-th RestaurarTx and delegates every other call.
type restauracionFallida struct {
	InventarioService
	fallarEn int
	llamadas int
}

func (i *restauracionFallida) RestaurarTx(tx *gorm.DB, institucionID, articuloID, habitacionID uuid.UUID, d Deduccion, ref *uuid.UUID) error {
	i.llamadas++
	if i.llamadas == i.fallarEn {
		return errors.New("restauracion: disco lleno")
	}
	return i.InventarioService.RestaurarTx(tx, institucionID, articuloID, habitacionID, d, ref)
}

func TestAnular_FalloParcialNoDejaCambios(t *testing.T) {
	f := newFixture(t)
	agua := f.crearArticulo("Agua", 1500)
	f.stock(agua, 1, 5)
	r := f.reservar(2, 0)
	primero := mustUUID(t, *r.MovimientoID)
	segundo := f.agregarMovimiento(r, "0")

	_, err := f.consumo.Registrar(f.ctx, f.inst, primero, items(agua, 2))
	require.NoError(t, err)
	_, err = f.consumo.Registrar(f.ctx, f.inst, segundo.ID, items(agua, 1))
	require.NoError(t, err)
	hab, gen := f.niveles(agua)
	require.Equal(t, 0, hab)
	require.Equal(t, 3, gen)

	inv := &restauracionFallida{InventarioService: f.inventario, fallarEn: 2}
	ocupacion := NewOcupacionService(
		repository.NewHabitacionRepository(f.db),
		repository.NewReservaRepository(f.db),
		repository.NewMovimientoRepository(f.db),
		NewTarifaService(repository.NewTarifaRepository(f.db)),
		inv, f.clk, time.UTC,
	)

	_, err = ocupacion.Anular(f.ctx, f.inst, mustUUID(t, r.ID), "error de carga")
	require.Error(t, err)
	assert.Equal(t, 2, inv.llamadas)

	hab, gen = f.niveles(agua)
	assert.Equal(t, 0, hab)
	assert.Equal(t, 3, gen)

	for _, id := range []string{primero.String(), segundo.ID.String()} {
		mov := f.movimiento(id)
		assert.False(t, mov.Anulado, id)
		require.Len(t, mov.Consumos, 1)
		assert.False(t, mov.Consumos[0].Anulado, id)
	}

	var movsStock int64
	require.NoError(t, f.db.Model(&model.MovimientoStock{}).
		Where("articulo_id = ? AND cantidad > 0", agua.ID).Count(&movsStock).Error)
	assert.Zero(t, movsStock)

	habitacion := f.habitacionActual()
	require.NotNil(t, habitacion.VisitaID)
	assert.Equal(t, r.VisitaID, habitacion.VisitaID.String())
	assert.False(t, habitacion.Disponible)

	var visita model.Visita
	require.NoError(t, f.db.First(&visita, "id = ?", r.VisitaID).Error)
	assert.False(t, visita.Anulado)
	assert.Equal(t, model.ReservaActiva, f.reserva(r.ID).Estado())

	var registros int64
	require.NoError(t, f.db.Model(&model.Registro{}).Where("reserva_id = ?", r.ID).Count(&registros).Error)
	assert.Zero(t, registros)

	_, err = f.ocupacion.Anular(f.ctx, f.inst, mustUUID(t, r.ID), "error de carga")
	require.NoError(t, err)
	hab, gen = f.niveles(agua)
	assert.Equal(t, 1, hab)
	assert.Equal(t, 5, gen)
}

func TestExtenderTiempo_AjustaMovimiento(t *testing.T) {
	f := newFixture(t)
	agua := f.crearArticulo("Agua", 1500)
	f.stock(agua, 2, 0)
	r := f.reservar(2, 30)
	movID := mustUUID(t, *r.MovimientoID)
	_, err := f.consumo.Registrar(f.ctx, f.inst, movID, dto.RegistrarConsumoRequest{
		Items: []dto.ConsumoItemRequest{{ArticuloID: agua.ID.String(), Cantidad: 2}},
	})
	require.NoError(t, err)

	resp, err := f.ocupacion.ExtenderTiempo(f.ctx, f.inst, mustUUID(t, r.ID), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalHoras)
	assert.Equal(t, 30, resp.TotalMinutos)
	assertMonto(t, "35000.00", resp.ImporteHabitacion)
	// Room delta on top of the 3000 of consumptions.
	assertMonto(t, "38000.00", f.movimiento(movID.String()).TotalFacturado)

	_, err = f.ocupacion.ExtenderTiempo(f.ctx, f.inst, mustUUID(t, r.ID), 0, 0)
	assert.ErrorIs(t, err, ErrDuracionInvalida)
}

func TestExtenderTiempo_SumaMinutos(t *testing.T) {
	f := newFixture(t)
	r := f.reservar(1, 45)

	resp, err := f.ocupacion.ExtenderTiempo(f.ctx, f.inst, mustUUID(t, r.ID), 0, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalHoras)
	assert.Equal(t, 15, resp.TotalMinutos)
	assertMonto(t, "22500.00", resp.ImporteHabitacion)
}

func TestCambiarPromocion(t *testing.T) {
	f := newFixture(t)
	promo := &model.Promocion{
		InstitucionID: f.inst, CategoriaID: f.categoria.ID, Nombre: "Happy hour", Tarifa: decimal.NewFromInt(6000), Activo: true,
	}
	f.create(promo)
	r := f.reservar(2, 0)

	resp, err := f.ocupacion.CambiarPromocion(f.ctx, f.inst, mustUUID(t, r.ID), &promo.ID)
	require.NoError(t, err)
	assertMonto(t, "12000.00", resp.ImporteHabitacion)
	assertMonto(t, "12000.00", f.movimiento(*r.MovimientoID).TotalFacturado)

	resp, err = f.ocupacion.CambiarPromocion(f.ctx, f.inst, mustUUID(t, r.ID), nil)
	require.NoError(t, err)
	assertMonto(t, "20000.00", resp.ImporteHabitacion)
	assert.Nil(t, resp.PromocionID)
	assertMonto(t, "20000.00", f.movimiento(*r.MovimientoID).TotalFacturado)
}

func TestCambiarPromocion_ReservaFinalizada(t *testing.T) {
	f := newFixture(t)
	r := f.reservar(1, 0)
	_, err := f.ocupacion.Finalizar(f.ctx, f.inst, f.habitacion.ID)
	require.NoError(t, err)

	_, err = f.ocupacion.CambiarPromocion(f.ctx, f.inst, mustUUID(t, r.ID), nil)
	assert.ErrorIs(t, err, ErrReservaTerminal)
}

func TestEstado_Activa(t *testing.T) {
	f := newFixture(t)
	r := f.reservar(2, 0)
	f.clk.Advance(45 * time.Minute)

	estado, err := f.ocupacion.Estado(f.ctx, f.inst, mustUUID(t, r.ID))
	require.NoError(t, err)
	assert.Equal(t, 45, estado.MinutosTranscurridos)
	assert.Equal(t, 75, estado.MinutosRestantes)
	assert.False(t, estado.Pausada)
	assertMonto(t, "20000.00", estado.TotalPendiente)

	_, err = f.ocupacion.Estado(f.ctx, uuid.New(), mustUUID(t, r.ID))
	assert.ErrorIs(t, err, ErrReservaNoEncontrada)
}
