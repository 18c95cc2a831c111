package infra

import (
	"fmt"

	"github.com/madecodebrazil/masioticas-sub005/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (partial indexes, check constraints).
//
// TranslateError is required: the service layer classifies duplicate-key
// violations via gorm.ErrDuplicatedKey to detect concurrent session opens.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates / updates all tables via AutoMigrate and then applies
// the SQL patches AutoMigrate cannot express. Also used by integration tests
// against throwaway containers.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Loja{},
		&model.Usuario{},
		&model.SessaoCaixa{},
		&model.MovimentoCaixa{},
		&model.SaldoCaixa{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// fully handle on its own.  Each statement uses IF NOT EXISTS / guard-block
// semantics so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// No máximo uma sessão aberta por loja, independente do dia.  O índice
		// único (loja_id, dia) do modelo cobre o caso "mesmo dia"; este índice
		// parcial fecha a brecha de abrir hoje com a sessão de ontem ainda aberta.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sessao_loja_aberta') THEN
		    CREATE UNIQUE INDEX idx_sessao_loja_aberta
		        ON sessao_caixas (loja_id)
		        WHERE estado = 'aberto';
		  END IF;
		END $$`,
		// Movimentos nunca têm valor zero; o sinal codifica a direção.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_movimento_valor_nao_zero') THEN
		    ALTER TABLE movimento_caixas
		      ADD CONSTRAINT chk_movimento_valor_nao_zero CHECK (valor <> 0);
		  END IF;
		END $$`,
		// Índice para o extrato de movimentos de uma sessão em ordem de registro.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimento_sessao_criado') THEN
		    CREATE INDEX idx_movimento_sessao_criado
		        ON movimento_caixas (sessao_id, created_at);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
