package service

import (
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func timePtrString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func reservaToResponse(r *model.Reserva) *dto.ReservaResponse {
	return &dto.ReservaResponse{
		ID:                r.ID.String(),
		VisitaID:          r.VisitaID.String(),
		HabitacionID:      r.HabitacionID.String(),
		MovimientoID:      uuidPtrString(r.MovimientoID),
		PromocionID:       uuidPtrString(r.PromocionID),
		FechaInicio:       r.FechaInicio.Format(time.RFC3339),
		FinPrevisto:       r.FinPrevisto().Format(time.RFC3339),
		TotalHoras:        r.TotalHoras,
		TotalMinutos:      r.TotalMinutos,
		Personas:          r.Personas,
		Tarifa:            r.Tarifa,
		ImporteHabitacion: r.ImporteHabitacion,
		Estado:            r.Estado(),
		FechaFin:          timePtrString(r.FechaFin),
		FechaAnulacion:    timePtrString(r.FechaAnulacion),
		MotivoAnulacion:   r.MotivoAnulacion,
	}
}

func consumoToResponse(c *model.Consumo) dto.ConsumoResponse {
	return dto.ConsumoResponse{
		ID:                 c.ID.String(),
		ArticuloID:         c.ArticuloID.String(),
		Cantidad:           c.Cantidad,
		CantidadHabitacion: c.CantidadHabitacion,
		CantidadGeneral:    c.CantidadGeneral,
		EsHabitacion:       c.EsHabitacion,
		PrecioUnitario:     c.PrecioUnitario,
		Subtotal:           c.Subtotal,
		Anulado:            c.Anulado,
	}
}

func movimientoToResponse(m *model.Movimiento) *dto.MovimientoResponse {
	consumos := make([]dto.ConsumoResponse, len(m.Consumos))
	for i := range m.Consumos {
		consumos[i] = consumoToResponse(&m.Consumos[i])
	}
	return &dto.MovimientoResponse{
		ID:             m.ID.String(),
		VisitaID:       m.VisitaID.String(),
		HabitacionID:   m.HabitacionID.String(),
		TotalFacturado: m.TotalFacturado,
		Pagado:         m.PagoID != nil,
		Anulado:        m.Anulado,
		Consumos:       consumos,
	}
}

func pagoToResponse(p *model.Pago) dto.PagoResponse {
	movs := make([]string, len(p.Movimientos))
	for i, m := range p.Movimientos {
		movs[i] = m.ID.String()
	}
	recargos := make([]dto.RecargoResponse, len(p.Recargos))
	for i, r := range p.Recargos {
		recargos[i] = dto.RecargoResponse{Descripcion: r.Descripcion, Porcentaje: r.Porcentaje, Monto: r.Monto}
	}
	return dto.PagoResponse{
		ID:             p.ID.String(),
		VisitaID:       p.VisitaID.String(),
		MedioPagoID:    p.MedioPagoID.String(),
		MontoEfectivo:  p.MontoEfectivo,
		MontoTarjeta:   p.MontoTarjeta,
		MontoBilletera: p.MontoBilletera,
		MontoDescuento: p.MontoDescuento,
		MontoFacturado: p.MontoFacturado,
		Movimientos:    movs,
		Recargos:       recargos,
		CierreID:       uuidPtrString(p.CierreID),
		Fecha:          p.Fecha.Format(time.RFC3339),
	}
}

func montosDe(pagos []model.Pago) dto.MontosPorMedio {
	m := dto.MontosPorMedio{
		Efectivo:  decimal.Zero,
		Tarjeta:   decimal.Zero,
		Billetera: decimal.Zero,
		Descuento: decimal.Zero,
	}
	for _, p := range pagos {
		m.Efectivo = m.Efectivo.Add(p.MontoEfectivo)
		m.Tarjeta = m.Tarjeta.Add(p.MontoTarjeta)
		m.Billetera = m.Billetera.Add(p.MontoBilletera)
		m.Descuento = m.Descuento.Add(p.MontoDescuento)
	}
	m.Total = m.Efectivo.Add(m.Tarjeta).Add(m.Billetera)
	return m
}

func cierreToResponse(c *model.Cierre) *dto.CierreResponse {
	resp := &dto.CierreResponse{
		ID:           c.ID.String(),
		Estado:       c.Estado,
		MontoInicial: c.MontoInicial,
		Totales: dto.MontosPorMedio{
			Efectivo:  c.TotalEfectivo,
			Tarjeta:   c.TotalTarjeta,
			Billetera: c.TotalBilletera,
			Descuento: c.TotalDescuento,
			Total:     c.Total(),
		},
		Observacion:   c.Observacion,
		FechaApertura: c.FechaApertura.Format(time.RFC3339),
		FechaCierre:   timePtrString(c.FechaCierre),
	}
	for i := range c.Pagos {
		resp.Pagos = append(resp.Pagos, pagoToResponse(&c.Pagos[i]))
	}
	return resp
}
