package migrations

import (
	"github.com/NeuralTrust/SportLens/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20251001_create_analyses_table",
		Name: "Create analyses table",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
				return err
			}
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS analyses (
					id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					provider           TEXT NOT NULL,
					model              TEXT NOT NULL,
					context            TEXT,
					image_sha256       CHAR(64) NOT NULL,
					image_size         INTEGER NOT NULL DEFAULT 0,
					media_type         TEXT,
					response           TEXT,
					prompt_tokens      INTEGER NOT NULL DEFAULT 0,
					completion_tokens  INTEGER NOT NULL DEFAULT 0,
					total_tokens       INTEGER NOT NULL DEFAULT 0,
					exif_tags          TEXT[],
					client_device      TEXT,
					client_os          TEXT,
					client_browser     TEXT,
					latency_ms         BIGINT NOT NULL DEFAULT 0,
					cached             BOOLEAN NOT NULL DEFAULT FALSE,
					created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}
			if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);`).Error; err != nil {
				return err
			}
			return db.Exec(`CREATE INDEX IF NOT EXISTS idx_analyses_image_sha256 ON analyses (image_sha256);`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS analyses;`).Error
		},
	})
}
