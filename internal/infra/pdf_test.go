package infra

import (
	"os"
	"testing"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCierrePDF_WritesFile(t *testing.T) {
	apertura := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	cierre := apertura.Add(12 * time.Hour)
	obs := "turno noche"
	c := &model.Cierre{
		ID:             uuid.New(),
		MontoInicial:   decimal.NewFromInt(1000),
		TotalEfectivo:  decimal.NewFromInt(55000),
		TotalTarjeta:   decimal.Zero,
		TotalBilletera: decimal.Zero,
		TotalDescuento: decimal.Zero,
		Estado:         model.CierreCerrado,
		Observacion:    &obs,
		FechaApertura:  apertura,
		FechaCierre:    &cierre,
		Pagos: []model.Pago{
			{VisitaID: uuid.New(), MontoEfectivo: decimal.NewFromInt(40000), MontoTarjeta: decimal.Zero, MontoBilletera: decimal.Zero, Fecha: apertura.Add(time.Hour)},
			{VisitaID: uuid.New(), MontoEfectivo: decimal.NewFromInt(15000), MontoTarjeta: decimal.Zero, MontoBilletera: decimal.Zero, Fecha: apertura.Add(2 * time.Hour)},
		},
	}

	path, err := GenerateCierrePDF(c, time.UTC, t.TempDir())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
