package service

import (
	"testing"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time { return time.Date(2024, 3, 10, h, m, 0, 0, time.UTC) }

func TestCalcularVentanasLibres_DiaLibre(t *testing.T) {
	v := CalcularVentanasLibres(at(15, 0), nil, 24*time.Hour)

	require.Len(t, v, 1)
	assert.True(t, v[0].Inicio.Equal(at(0, 0)))
	assert.True(t, v[0].Fin.Equal(time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)))
}

func TestCalcularVentanasLibres_RecortaMedianoche(t *testing.T) {
	ocupados := []Intervalo{
		{Inicio: at(0, 0).Add(-2 * time.Hour), Fin: at(1, 0)},
		{Inicio: at(22, 0), Fin: at(0, 0).Add(26 * time.Hour)},
	}

	v := CalcularVentanasLibres(at(0, 0), ocupados, 30*time.Minute)

	require.Len(t, v, 1)
	assert.True(t, v[0].Inicio.Equal(at(1, 0)))
	assert.True(t, v[0].Fin.Equal(at(22, 0)))
}

func TestCalcularVentanasLibres_DescartaHuecosCortos(t *testing.T) {
	ocupados := []Intervalo{
		{Inicio: at(14, 20), Fin: at(16, 0)},
		{Inicio: at(10, 0), Fin: at(14, 0)},
		{Inicio: at(18, 0), Fin: at(19, 0)},
	}

	v := CalcularVentanasLibres(at(0, 0), ocupados, 30*time.Minute)

	require.Len(t, v, 3)
	assert.True(t, v[0].Inicio.Equal(at(0, 0)))
	assert.True(t, v[0].Fin.Equal(at(10, 0)))
	assert.True(t, v[1].Inicio.Equal(at(16, 0)))
	assert.True(t, v[1].Fin.Equal(at(18, 0)))
	assert.True(t, v[2].Inicio.Equal(at(19, 0)))
}

func TestCalcularVentanasLibres_Solapados(t *testing.T) {
	ocupados := []Intervalo{
		{Inicio: at(8, 0), Fin: at(12, 0)},
		{Inicio: at(9, 0), Fin: at(10, 0)},
	}

	v := CalcularVentanasLibres(at(0, 0), ocupados, time.Minute)

	require.Len(t, v, 2)
	assert.True(t, v[1].Inicio.Equal(at(12, 0)))
}

func TestVentanasLibres_ReservaActiva(t *testing.T) {
	f := newFixture(t)
	f.reservar(2, 0)

	resp, err := f.disponibilidad.VentanasLibres(f.ctx, f.inst, f.habitacion.ID, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, []dto.VentanaLibre{
		{Desde: "2024-03-10T00:00:00Z", Hasta: "2024-03-10T10:00:00Z"},
		{Desde: "2024-03-10T12:00:00Z", Hasta: "2024-03-10T23:59:59Z"},
	}, resp.Ventanas)

	// An overstaying guest keeps the room busy until now.
	f.clk.Advance(3 * time.Hour)
	resp, err = f.disponibilidad.VentanasLibres(f.ctx, f.inst, f.habitacion.ID, "2024-03-10")
	require.NoError(t, err)
	require.Len(t, resp.Ventanas, 2)
	assert.Equal(t, "2024-03-10T13:00:00Z", resp.Ventanas[1].Desde)
}

func TestVentanasLibres_ReservaFinalizadaYAnulada(t *testing.T) {
	f := newFixture(t)
	f.reservar(2, 0)
	f.clk.Advance(time.Hour)
	_, err := f.ocupacion.Finalizar(f.ctx, f.inst, f.habitacion.ID)
	require.NoError(t, err)

	f.clk.Advance(2 * time.Hour)
	anulada := f.reservar(1, 0)
	_, err = f.ocupacion.Anular(f.ctx, f.inst, mustUUID(t, anulada.ID), "")
	require.NoError(t, err)

	resp, err := f.disponibilidad.VentanasLibres(f.ctx, f.inst, f.habitacion.ID, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, []dto.VentanaLibre{
		{Desde: "2024-03-10T00:00:00Z", Hasta: "2024-03-10T10:00:00Z"},
		{Desde: "2024-03-10T11:00:00Z", Hasta: "2024-03-10T23:59:59Z"},
	}, resp.Ventanas)
}

func TestVentanasLibres_OtroDia(t *testing.T) {
	f := newFixture(t)
	f.reservar(2, 0)

	resp, err := f.disponibilidad.VentanasLibres(f.ctx, f.inst, f.habitacion.ID, "2024-03-12")
	require.NoError(t, err)
	assert.Equal(t, []dto.VentanaLibre{
		{Desde: "2024-03-12T00:00:00Z", Hasta: "2024-03-12T23:59:59Z"},
	}, resp.Ventanas)
}

func TestVentanasLibres_Errores(t *testing.T) {
	f := newFixture(t)

	_, err := f.disponibilidad.VentanasLibres(f.ctx, f.inst, f.habitacion.ID, "10/03/2024")
	assert.ErrorIs(t, err, ErrFechaInvalida)

	_, err = f.disponibilidad.VentanasLibres(f.ctx, f.inst, uuid.New(), "2024-03-10")
	assert.ErrorIs(t, err, ErrHabitacionNoEncontrada)

	_, err = f.disponibilidad.VentanasLibres(f.ctx, uuid.New(), f.habitacion.ID, "2024-03-10")
	assert.ErrorIs(t, err, ErrHabitacionNoEncontrada)
}
