package model

import "github.com/google/uuid"

// newID assigns a fresh UUID when the caller left the key empty.
// Keys are generated in Go so the same models migrate on Postgres and SQLite.
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All returns every persisted model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Categoria{},
		&Promocion{},
		&Habitacion{},
		&Visita{},
		&Reserva{},
		&Registro{},
		&Articulo{},
		&MedioPago{},
		&Cierre{},
		&Pago{},
		&Recargo{},
		&Movimiento{},
		&Consumo{},
		&Inventario{},
		&InventarioGeneral{},
		&MovimientoStock{},
	}
}
