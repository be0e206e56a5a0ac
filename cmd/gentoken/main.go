// cmd/gentoken: mints a development JWT for an institution.
// Uso: go run ./cmd/gentoken -institucion <uuid> -rol supervisor
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/config"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	institucion := flag.String("institucion", "", "institucion_id (uuid)")
	rol := flag.String("rol", middleware.RolRecepcion, "recepcion | supervisor | administrador")
	usuario := flag.String("usuario", "dev", "user_id")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if _, err := uuid.Parse(*institucion); err != nil {
		fmt.Fprintln(os.Stderr, "-institucion debe ser un uuid")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	token, err := middleware.SignToken(cfg.JWTSecret, middleware.JWTClaims{
		UserID:        *usuario,
		InstitucionID: *institucion,
		Rol:           *rol,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
