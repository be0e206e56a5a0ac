package service

import (
	"testing"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(pairs ...interface{}) dto.RegistrarConsumoRequest {
	var req dto.RegistrarConsumoRequest
	for i := 0; i+1 < len(pairs); i += 2 {
		req.Items = append(req.Items, dto.ConsumoItemRequest{
			ArticuloID: pairs[i].(*model.Articulo).ID.String(),
			Cantidad:   pairs[i+1].(int),
		})
	}
	return req
}

func TestRegistrarConsumo_RepartoEntreNiveles(t *testing.T) {
	f := newFixture(t)
	cerveza := f.crearArticulo("Cerveza", 2500)
	f.stock(cerveza, 3, 5)
	r := f.reservar(2, 30)
	movID := mustUUID(t, *r.MovimientoID)

	resp, err := f.consumo.Registrar(f.ctx, f.inst, movID, items(cerveza, 5))
	require.NoError(t, err)

	require.Len(t, resp.Consumos, 1)
	c := resp.Consumos[0]
	assert.Equal(t, 5, c.Cantidad)
	assert.Equal(t, 3, c.CantidadHabitacion)
	assert.Equal(t, 2, c.CantidadGeneral)
	assert.True(t, c.EsHabitacion)
	assertMonto(t, "12500.00", c.Subtotal)
	assertMonto(t, "37500.00", resp.TotalFacturado)

	hab, gen := f.niveles(cerveza)
	assert.Equal(t, 0, hab)
	assert.Equal(t, 3, gen)
	assertMonto(t, "37500.00", f.movimiento(movID.String()).TotalFacturado)
}

func TestRegistrarConsumo_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	cerveza := f.crearArticulo("Cerveza", 2500)
	f.stock(cerveza, 2, 3)
	r := f.reservar(1, 0)
	movID := mustUUID(t, *r.MovimientoID)

	_, err := f.consumo.Registrar(f.ctx, f.inst, movID, items(cerveza, 10))
	assert.ErrorIs(t, err, ErrStockInsuficiente)

	hab, gen := f.niveles(cerveza)
	assert.Equal(t, 2, hab)
	assert.Equal(t, 3, gen)
	mov := f.movimiento(movID.String())
	assertMonto(t, "10000.00", mov.TotalFacturado)
	assert.Empty(t, mov.Consumos)
}

func TestRegistrarConsumo_RollbackDeTodoElPedido(t *testing.T) {
	f := newFixture(t)
	agua := f.crearArticulo("Agua", 1000)
	f.stock(agua, 2, 2)
	vino := f.crearArticulo("Vino", 9000)
	f.stock(vino, 0, 1)
	r := f.reservar(1, 0)
	movID := mustUUID(t, *r.MovimientoID)

	_, err := f.consumo.Registrar(f.ctx, f.inst, movID, items(agua, 3, vino, 2))
	assert.ErrorIs(t, err, ErrStockInsuficiente)

	hab, gen := f.niveles(agua)
	assert.Equal(t, 2, hab)
	assert.Equal(t, 2, gen)
	mov := f.movimiento(movID.String())
	assertMonto(t, "10000.00", mov.TotalFacturado)
	assert.Empty(t, mov.Consumos)

	var n int64
	f.db.Model(&model.MovimientoStock{}).Count(&n)
	assert.Zero(t, n)
}

func TestRegistrarConsumo_ValidacionesDeArticulo(t *testing.T) {
	f := newFixture(t)
	sinPrecio := f.crearArticulo("Cortesia", 0)
	f.stock(sinPrecio, 5, 5)
	agua := f.crearArticulo("Agua", 1000)
	f.stock(agua, 5, 5)
	r := f.reservar(1, 0)
	movID := mustUUID(t, *r.MovimientoID)

	_, err := f.consumo.Registrar(f.ctx, f.inst, movID, items(sinPrecio, 1))
	assert.ErrorIs(t, err, ErrArticuloSinPrecio)

	_, err = f.consumo.Registrar(f.ctx, f.inst, movID, items(agua, 0))
	assert.ErrorIs(t, err, ErrCantidadInvalida)

	_, err = f.consumo.Registrar(f.ctx, f.inst, movID, dto.RegistrarConsumoRequest{
		Items: []dto.ConsumoItemRequest{{ArticuloID: uuid.NewString(), Cantidad: 1}},
	})
	assert.ErrorIs(t, err, ErrArticuloNoEncontrado)

	_, err = f.consumo.Registrar(f.ctx, f.inst, uuid.New(), items(agua, 1))
	assert.ErrorIs(t, err, ErrMovimientoNoEncontrado)

	_, err = f.consumo.Registrar(f.ctx, uuid.New(), movID, items(agua, 1))
	assert.ErrorIs(t, err, ErrMovimientoNoEncontrado)
}

func TestRegistrarConsumo_MovimientoPagado(t *testing.T) {
	f := newFixture(t)
	agua := f.crearArticulo("Agua", 1000)
	f.stock(agua, 5, 5)
	r := f.reservar(1, 0)
	_, err := f.pago.Pagar(f.ctx, f.inst, mustUUID(t, r.VisitaID), dto.PagarRequest{
		MedioPagoID: f.efectivo.ID.String(), MontoEfectivo: dec("10000"),
	})
	require.NoError(t, err)

	_, err = f.consumo.Registrar(f.ctx, f.inst, mustUUID(t, *r.MovimientoID), items(agua, 1))
	assert.ErrorIs(t, err, ErrMovimientoPagado)
}

func TestAnularConsumo(t *testing.T) {
	f := newFixture(t)
	cerveza := f.crearArticulo("Cerveza", 2500)
	f.stock(cerveza, 1, 4)
	r := f.reservar(1, 0)
	movID := mustUUID(t, *r.MovimientoID)
	resp, err := f.consumo.Registrar(f.ctx, f.inst, movID, items(cerveza, 3))
	require.NoError(t, err)
	consumoID := mustUUID(t, resp.Consumos[0].ID)

	after, err := f.consumo.Anular(f.ctx, f.inst, consumoID)
	require.NoError(t, err)
	assertMonto(t, "10000.00", after.TotalFacturado)
	require.Len(t, after.Consumos, 1)
	assert.True(t, after.Consumos[0].Anulado)

	hab, gen := f.niveles(cerveza)
	assert.Equal(t, 1, hab)
	assert.Equal(t, 4, gen)

	_, err = f.consumo.Anular(f.ctx, f.inst, consumoID)
	assert.ErrorIs(t, err, ErrConsumoAnulado)

	_, err = f.consumo.Anular(f.ctx, f.inst, uuid.New())
	assert.ErrorIs(t, err, ErrConsumoNoEncontrado)
}

func TestObtenerMovimiento(t *testing.T) {
	f := newFixture(t)
	r := f.reservar(1, 0)
	movID := mustUUID(t, *r.MovimientoID)

	resp, err := f.consumo.ObtenerMovimiento(f.ctx, f.inst, movID)
	require.NoError(t, err)
	assert.Equal(t, r.VisitaID, resp.VisitaID)
	assert.False(t, resp.Pagado)

	_, err = f.consumo.ObtenerMovimiento(f.ctx, uuid.New(), movID)
	assert.ErrorIs(t, err, ErrMovimientoNoEncontrado)
}

func TestRegistrarConsumo_TrasPagoParcialAbreMovimiento(t *testing.T) {
	f := newFixture(t)
	agua := f.crearArticulo("Agua", 2500)
	f.stock(agua, 0, 10)
	r := f.reservar(3, 0)
	visitaID := mustUUID(t, r.VisitaID)
	original := mustUUID(t, *r.MovimientoID)

	_, err := f.pago.Pagar(f.ctx, f.inst, visitaID, dto.PagarRequest{
		MedioPagoID: f.efectivo.ID.String(), MontoEfectivo: dec("30000"),
	})
	require.NoError(t, err)

	resp, err := f.consumo.Registrar(f.ctx, f.inst, original, items(agua, 2))
	require.NoError(t, err)
	assert.NotEqual(t, original.String(), resp.ID)
	assertMonto(t, "5000.00", resp.TotalFacturado)
	assert.Equal(t, r.VisitaID, resp.VisitaID)

	// A second call on the paid movement reuses the same open movement.
	resp2, err := f.consumo.Registrar(f.ctx, f.inst, original, items(agua, 1))
	require.NoError(t, err)
	assert.Equal(t, resp.ID, resp2.ID)
	assertMonto(t, "7500.00", resp2.TotalFacturado)

	_, err = f.ocupacion.ExtenderTiempo(f.ctx, f.inst, mustUUID(t, r.ID), 1, 0)
	require.NoError(t, err)
	res := f.reserva(r.ID)
	require.NotNil(t, res.MovimientoID)
	assert.Equal(t, resp.ID, res.MovimientoID.String())
	assertMonto(t, "17500.00", f.movimiento(resp.ID).TotalFacturado)
	assertMonto(t, "30000.00", f.movimiento(original.String()).TotalFacturado)

	pago, err := f.pago.Pagar(f.ctx, f.inst, visitaID, dto.PagarRequest{
		MedioPagoID: f.efectivo.ID.String(), MontoEfectivo: dec("17500"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{resp.ID}, pago.Movimientos)
	assertMonto(t, "17500.00", pago.MontoFacturado)

	_, gen := f.niveles(agua)
	assert.Equal(t, 7, gen)

	_, err = f.ocupacion.Finalizar(f.ctx, f.inst, f.habitacion.ID)
	require.NoError(t, err)
	_, err = f.consumo.Registrar(f.ctx, f.inst, original, items(agua, 1))
	assert.ErrorIs(t, err, ErrMovimientoPagado)
}
