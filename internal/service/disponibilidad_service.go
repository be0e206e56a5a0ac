package service

import (
	"context"
	"sort"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/clock"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/dto"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/repository"

	"github.com/google/uuid"
)

// Intervalo is a half-open time range [Inicio, Fin).
type Intervalo struct {
	Inicio time.Time
	Fin    time.Time
}

// DisponibilidadService computes the free windows of a room for a day.
type DisponibilidadService interface {
	VentanasLibres(ctx context.Context, institucionID, habitacionID uuid.UUID, fecha string) (*dto.DisponibilidadResponse, error)
}

type disponibilidadService struct {
	habitaciones repository.HabitacionRepository
	reservas     repository.ReservaRepository
	clock        clock.Clock
	loc          *time.Location
	gapMinimo    time.Duration
}

func NewDisponibilidadService(
	habitaciones repository.HabitacionRepository,
	reservas repository.ReservaRepository,
	clk clock.Clock,
	loc *time.Location,
	gapMinimo time.Duration,
) DisponibilidadService {
	return &disponibilidadService{
		habitaciones: habitaciones,
		reservas:     reservas,
		clock:        clk,
		loc:          loc,
		gapMinimo:    gapMinimo,
	}
}

func (s *disponibilidadService) VentanasLibres(ctx context.Context, institucionID, habitacionID uuid.UUID, fecha string) (*dto.DisponibilidadResponse, error) {
	dia, err := time.ParseInLocation("2006-01-02", fecha, s.loc)
	if err != nil {
		return nil, ErrFechaInvalida
	}
	hab, err := s.habitaciones.FindByID(ctx, habitacionID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrHabitacionNoEncontrada
		}
		return nil, err
	}
	if hab.InstitucionID != institucionID || hab.Anulado {
		return nil, ErrHabitacionNoEncontrada
	}

	inicioDia, finDia := limitesDia(dia)
	reservas, err := s.reservas.ListByHabitacionEnRango(ctx, habitacionID, inicioDia, finDia.Add(time.Second))
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ocupados := make([]Intervalo, 0, len(reservas))
	for _, r := range reservas {
		var fin time.Time
		switch {
		case r.FechaFin != nil:
			fin = *r.FechaFin
		default:
			// An active stay holds the room until its planned end, or until
			// now when the guest overstays.
			fin = r.FinPrevisto()
			if now.After(fin) {
				fin = now
			}
		}
		ocupados = append(ocupados, Intervalo{Inicio: r.FechaInicio, Fin: fin})
	}

	ventanas := CalcularVentanasLibres(dia, ocupados, s.gapMinimo)
	resp := &dto.DisponibilidadResponse{
		HabitacionID: habitacionID.String(),
		Fecha:        fecha,
		Ventanas:     make([]dto.VentanaLibre, len(ventanas)),
	}
	for i, v := range ventanas {
		resp.Ventanas[i] = dto.VentanaLibre{
			Desde: v.Inicio.In(s.loc).Format(time.RFC3339),
			Hasta: v.Fin.In(s.loc).Format(time.RFC3339),
		}
	}
	return resp, nil
}

// limitesDia returns 00:00:00 and 23:59:59 of dia in its own location.
func limitesDia(dia time.Time) (time.Time, time.Time) {
	y, m, d := dia.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, dia.Location()),
		time.Date(y, m, d, 23, 59, 59, 0, dia.Location())
}

// CalcularVentanasLibres subtracts the occupied intervals from the day of dia
// and returns the gaps of at least gapMinimo. Intervals crossing midnight are
// clipped to the day. A day without occupation is one window
// [00:00:00, 23:59:59] regardless of gapMinimo.
func CalcularVentanasLibres(dia time.Time, ocupados []Intervalo, gapMinimo time.Duration) []Intervalo {
	inicioDia, finDia := limitesDia(dia)

	clipped := make([]Intervalo, 0, len(ocupados))
	for _, o := range ocupados {
		if !o.Fin.After(inicioDia) || o.Inicio.After(finDia) {
			continue
		}
		if o.Inicio.Before(inicioDia) {
			o.Inicio = inicioDia
		}
		if o.Fin.After(finDia) {
			o.Fin = finDia
		}
		clipped = append(clipped, o)
	}
	if len(clipped) == 0 {
		return []Intervalo{{Inicio: inicioDia, Fin: finDia}}
	}
	sort.Slice(clipped, func(i, j int) bool { return clipped[i].Inicio.Before(clipped[j].Inicio) })

	var libres []Intervalo
	cursor := inicioDia
	for _, o := range clipped {
		if o.Inicio.Sub(cursor) >= gapMinimo {
			libres = append(libres, Intervalo{Inicio: cursor, Fin: o.Inicio})
		}
		if o.Fin.After(cursor) {
			cursor = o.Fin
		}
	}
	if finDia.Sub(cursor) >= gapMinimo {
		libres = append(libres, Intervalo{Inicio: cursor, Fin: finDia})
	}
	return libres
}
