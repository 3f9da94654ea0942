package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-helpdesk/internal/domain"
)

// SeedReferenceData inserts the fixed roles and departments. Inserts
// are idempotent so repeated process starts leave existing rows alone.
func SeedReferenceData(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping seed")
		return nil
	}

	for _, role := range domain.AllRoles {
		if _, err := pool.Exec(ctx,
			`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, string(role)); err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
	}

	for _, dept := range domain.SeedDepartments {
		if _, err := pool.Exec(ctx,
			`INSERT INTO departments (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, dept); err != nil {
			return fmt.Errorf("seed department %s: %w", dept, err)
		}
	}

	logger.Info("reference data seeded",
		zap.Int("roles", len(domain.AllRoles)),
		zap.Int("departments", len(domain.SeedDepartments)))
	return nil
}
