package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a domain error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidState
	KindInvalidInput
	KindInsufficientStock
	KindConflict
)

// Error is the domain error returned by every service. Code is stable and
// machine readable; Msg is shown to the operator.
type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so wrapped copies of a sentinel compare equal to it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// With returns a copy of e carrying extra detail in its message.
func (e *Error) With(format string, args ...interface{}) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Msg: e.Msg + ": " + fmt.Sprintf(format, args...), Err: e.Err}
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

var (
	ErrHabitacionNoEncontrada = newError(KindNotFound, "habitacion_no_encontrada", "Habitacion no encontrada")
	ErrHabitacionNoDisponible = newError(KindInvalidState, "habitacion_no_disponible", "La habitacion no esta disponible")
	ErrHabitacionSinVisita    = newError(KindInvalidState, "habitacion_sin_visita", "La habitacion no tiene una visita activa")
	ErrPromocionInvalida      = newError(KindInvalidInput, "promocion_invalida", "La promocion no es valida para la categoria de la habitacion")
	ErrDuracionInvalida       = newError(KindInvalidInput, "duracion_invalida", "La duracion de la ocupacion es invalida")
	ErrPersonasInvalidas      = newError(KindInvalidInput, "personas_invalidas", "La cantidad de personas es invalida")
	ErrStockInsuficiente      = newError(KindInsufficientStock, "stock_insuficiente", "Stock insuficiente")
	ErrMotivoInvalido         = newError(KindInvalidInput, "motivo_invalido", "El motivo no puede superar los 150 caracteres")
	ErrArticuloNoEncontrado   = newError(KindNotFound, "articulo_no_encontrado", "Articulo no encontrado")
	ErrArticuloSinPrecio      = newError(KindInvalidInput, "articulo_sin_precio", "El articulo no tiene precio asignado")
	ErrCantidadInvalida       = newError(KindInvalidInput, "cantidad_invalida", "La cantidad debe ser mayor a cero")
	ErrMontoInvalido          = newError(KindInvalidInput, "monto_invalido", "Los montos no pueden ser negativos")
	ErrNadaParaPagar          = newError(KindInvalidState, "nada_para_pagar", "La visita no tiene movimientos pendientes de pago")
	ErrMedioPagoInvalido      = newError(KindInvalidInput, "medio_pago_invalido", "Medio de pago invalido")
	ErrNadaParaCerrar         = newError(KindInvalidState, "nada_para_cerrar", "No hay pagos pendientes de cierre")
	ErrVisitaNoEncontrada     = newError(KindNotFound, "visita_no_encontrada", "Visita no encontrada")
	ErrReservaNoEncontrada    = newError(KindNotFound, "reserva_no_encontrada", "Reserva no encontrada")
	ErrReservaTerminal        = newError(KindInvalidState, "reserva_finalizada", "La reserva ya fue finalizada o anulada")
	ErrReservaNoPausada       = newError(KindInvalidState, "reserva_no_pausada", "La reserva no esta pausada")
	ErrMovimientoNoEncontrado = newError(KindNotFound, "movimiento_no_encontrado", "Movimiento no encontrado")
	ErrMovimientoPagado       = newError(KindInvalidState, "movimiento_pagado", "El movimiento ya fue pagado")
	ErrMovimientoAnulado      = newError(KindInvalidState, "movimiento_anulado", "El movimiento esta anulado")
	ErrConsumoNoEncontrado    = newError(KindNotFound, "consumo_no_encontrado", "Consumo no encontrado")
	ErrConsumoAnulado         = newError(KindInvalidState, "consumo_anulado", "El consumo ya fue anulado")
	ErrCierreNoEncontrado     = newError(KindNotFound, "cierre_no_encontrado", "Cierre no encontrado")
	ErrFechaInvalida          = newError(KindInvalidInput, "fecha_invalida", "Fecha invalida, se espera AAAA-MM-DD")
	ErrConflicto              = newError(KindConflict, "conflicto_concurrencia", "Conflicto de concurrencia, reintente la operacion")
)

// KindOf reports the Kind of err, KindInternal when it is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Postgres SQLSTATEs that mean another transaction won the race.
var conflictCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"23505": true, // unique_violation (second open cierre)
}

// translate maps storage conflicts to ErrConflicto and passes everything else through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && conflictCodes[pgErr.Code] {
		return &Error{Kind: KindConflict, Code: ErrConflicto.Code, Msg: ErrConflicto.Msg, Err: err}
	}
	return err
}
