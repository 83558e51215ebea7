// cmd/seeduser/main.go seeds a demo installation: company, branch,
// measurement units and an administrator.
// Uso: go run ./cmd/seeduser
package main

import (
	"os"
	"time"

	"rackpos/internal/config"
	"rackpos/internal/infra"
	"rackpos/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}

	username := envOr("SEED_USERNAME", "admin")
	password := envOr("SEED_PASSWORD", "rackpos2026")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var empresa model.Empresa
		if err := tx.Where(model.Empresa{RIF: "J-00000000-0"}).
			Attrs(model.Empresa{Nombre: "Demo C.A."}).
			FirstOrCreate(&empresa).Error; err != nil {
			return err
		}

		var sucursal model.Sucursal
		if err := tx.Where(model.Sucursal{Nombre: "Principal"}).FirstOrCreate(&sucursal).Error; err != nil {
			return err
		}

		unidades := []model.UnidadMedida{
			{Nombre: "unidad", Abreviatura: "und"},
			{Nombre: "kilogramo", Abreviatura: "kg", PermiteDecimales: true},
			{Nombre: "litro", Abreviatura: "l", PermiteDecimales: true},
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&unidades).Error; err != nil {
			return err
		}

		admin := model.Usuario{
			Username:     username,
			Nombre:       "Administrador",
			PasswordHash: string(hash),
			Rol:          "administrador",
			Activo:       true,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash", "rol", "activo"}),
		}).Create(&admin).Error
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Str("username", username).Msg("seed completed")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
