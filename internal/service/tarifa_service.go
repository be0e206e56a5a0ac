package service

import (
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tarifa is a resolved room charge. Importe includes Adicional.
type Tarifa struct {
	PorHora     decimal.Decimal
	Importe     decimal.Decimal
	Adicional   decimal.Decimal
	PromocionID *uuid.UUID
}

// TarifaService resolves the room charge of an occupancy.
type TarifaService interface {
	// ResolverTx prices horas:minutos for a room of categoria, applying the
	// promotion when one is given and the surcharge for guests above the
	// category capacity. personas 0 means not declared. It reads inside the
	// caller's transaction.
	ResolverTx(tx *gorm.DB, categoria *model.Categoria, promocionID *uuid.UUID, horas, minutos, personas int) (*Tarifa, error)
}

type tarifaService struct {
	repo repository.TarifaRepository
}

func NewTarifaService(repo repository.TarifaRepository) TarifaService {
	return &tarifaService{repo: repo}
}

func (s *tarifaService) ResolverTx(tx *gorm.DB, categoria *model.Categoria, promocionID *uuid.UUID, horas, minutos, personas int) (*Tarifa, error) {
	if horas < 0 || minutos < 0 || minutos > 59 || horas*60+minutos == 0 {
		return nil, ErrDuracionInvalida
	}
	if personas < 0 {
		return nil, ErrPersonasInvalidas
	}

	porHora := categoria.PrecioNormal
	if promocionID != nil {
		promo, err := s.repo.FindPromocionTx(tx, *promocionID)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrPromocionInvalida
			}
			return nil, err
		}
		if promo.CategoriaID != categoria.ID || !promo.Activo {
			return nil, ErrPromocionInvalida
		}
		porHora = promo.Tarifa
	}

	importe := CalcularImporte(porHora, horas, minutos)
	adicional := CalcularAdicional(categoria, importe, personas)
	return &Tarifa{
		PorHora:     porHora,
		Importe:     importe.Add(adicional),
		Adicional:   adicional,
		PromocionID: promocionID,
	}, nil
}

var sesenta = decimal.NewFromInt(60)

// CalcularImporte charges porHora pro rata by the minute, rounded half away
// from zero to cents.
func CalcularImporte(porHora decimal.Decimal, horas, minutos int) decimal.Decimal {
	totalMinutos := decimal.NewFromInt(int64(horas*60 + minutos))
	return porHora.Mul(totalMinutos).Div(sesenta).Round(2)
}

// CalcularAdicional is PorcentajeAdicional of importe for every guest above
// CapacidadMaxima, rounded to cents. A category without capacity or
// percentage charges nothing.
func CalcularAdicional(categoria *model.Categoria, importe decimal.Decimal, personas int) decimal.Decimal {
	extra := personas - categoria.CapacidadMaxima
	if categoria.CapacidadMaxima <= 0 || extra <= 0 || !categoria.PorcentajeAdicional.IsPositive() {
		return decimal.Zero
	}
	return importe.Mul(categoria.PorcentajeAdicional).Div(cien).
		Mul(decimal.NewFromInt(int64(extra))).Round(2)
}
