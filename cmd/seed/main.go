// cmd/seed: loads demo data for one institution. Safe to run repeatedly:
// every row has a deterministic id and conflicts are ignored.
// Uso: go run ./cmd/seed [-institucion <uuid>]
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/config"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/infra"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/logger"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var demoNamespace = uuid.MustParse("6f1c2a8e-4b7d-4e0a-9a51-2d3c8f0b7e14")

func main() {
	institucionFlag := flag.String("institucion", "", "institucion_id (default: demo institution)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.Env, cfg.LogLevel)

	inst := uuid.NewSHA1(demoNamespace, []byte("institucion"))
	if *institucionFlag != "" {
		if inst, err = uuid.Parse(*institucionFlag); err != nil {
			log.Fatal().Err(err).Msg("invalid -institucion")
		}
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	if err := seed(context.Background(), db, inst); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	fmt.Printf("Datos demo cargados para la institucion %s\n", inst)
}

func seed(ctx context.Context, db *gorm.DB, inst uuid.UUID) error {
	id := func(parts ...string) uuid.UUID {
		key := inst.String()
		for _, p := range parts {
			key += "/" + p
		}
		return uuid.NewSHA1(demoNamespace, []byte(key))
	}
	ignore := clause.OnConflict{DoNothing: true}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categorias := []model.Categoria{
			{ID: id("cat", "comun"), InstitucionID: inst, Nombre: "Comun", PrecioNormal: decimal.NewFromInt(10000), CapacidadMaxima: 2, Activo: true},
			{ID: id("cat", "suite"), InstitucionID: inst, Nombre: "Suite", PrecioNormal: decimal.NewFromInt(18000), CapacidadMaxima: 2, Activo: true},
		}
		if err := tx.Clauses(ignore).Create(&categorias).Error; err != nil {
			return err
		}

		promos := []model.Promocion{
			{ID: id("promo", "turno-noche"), InstitucionID: inst, CategoriaID: categorias[0].ID, Nombre: "Turno noche", Tarifa: decimal.NewFromInt(7000), CantidadHoras: 8, Activo: true},
			{ID: id("promo", "suite-3x2"), InstitucionID: inst, CategoriaID: categorias[1].ID, Nombre: "Suite 3 horas", Tarifa: decimal.NewFromInt(14000), CantidadHoras: 3, Activo: true},
		}
		if err := tx.Clauses(ignore).Create(&promos).Error; err != nil {
			return err
		}

		var habitaciones []model.Habitacion
		for i := 1; i <= 6; i++ {
			cat := categorias[0]
			if i > 4 {
				cat = categorias[1]
			}
			nombre := fmt.Sprintf("%d", 100+i)
			habitaciones = append(habitaciones, model.Habitacion{
				ID: id("hab", nombre), InstitucionID: inst, Nombre: nombre, CategoriaID: cat.ID, Disponible: true,
			})
		}
		if err := tx.Clauses(ignore).Create(&habitaciones).Error; err != nil {
			return err
		}

		articulos := []model.Articulo{
			{ID: id("art", "agua"), InstitucionID: inst, Nombre: "Agua mineral", Precio: decimal.NewFromInt(1500)},
			{ID: id("art", "gaseosa"), InstitucionID: inst, Nombre: "Gaseosa", Precio: decimal.NewFromInt(2000)},
			{ID: id("art", "cerveza"), InstitucionID: inst, Nombre: "Cerveza", Precio: decimal.NewFromInt(3500)},
			{ID: id("art", "preservativos"), InstitucionID: inst, Nombre: "Preservativos", Precio: decimal.NewFromInt(2500)},
		}
		if err := tx.Clauses(ignore).Create(&articulos).Error; err != nil {
			return err
		}

		var general []model.InventarioGeneral
		var porHabitacion []model.Inventario
		for _, a := range articulos {
			general = append(general, model.InventarioGeneral{ID: id("invg", a.Nombre), InstitucionID: inst, ArticuloID: a.ID, Cantidad: 100})
			for _, h := range habitaciones {
				porHabitacion = append(porHabitacion, model.Inventario{
					ID: id("inv", h.Nombre, a.Nombre), InstitucionID: inst, HabitacionID: h.ID, ArticuloID: a.ID, Cantidad: 2,
				})
			}
		}
		if err := tx.Clauses(ignore).Create(&general).Error; err != nil {
			return err
		}
		if err := tx.Clauses(ignore).Create(&porHabitacion).Error; err != nil {
			return err
		}

		medios := []model.MedioPago{
			{ID: id("medio", "efectivo"), InstitucionID: inst, Nombre: "Efectivo", Activo: true},
			{ID: id("medio", "posnet"), InstitucionID: inst, Nombre: "Posnet", Activo: true},
			{ID: id("medio", "billetera"), InstitucionID: inst, Nombre: "Billetera virtual", Activo: true},
		}
		if err := tx.Clauses(ignore).Create(&medios).Error; err != nil {
			return err
		}

		log.Info().
			Int("habitaciones", len(habitaciones)).
			Int("articulos", len(articulos)).
			Msg("seed ok")
		return nil
	})
}
