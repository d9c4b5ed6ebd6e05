package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"waypoint/internal/middleware"

	"gorm.io/gorm"
)

// MigrationLog is one row in the migration bookkeeping table.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationLog) TableName() string {
	return "migration_logs"
}

// migrationLedger reads and writes the migration_logs table.
type migrationLedger struct {
	db *gorm.DB
}

func (l migrationLedger) applied(ctx context.Context) ([]int, error) {
	var versions []int
	err := l.db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error
	if err != nil {
		// A fresh database has no ledger table yet; that means nothing applied.
		if errors.Is(err, gorm.ErrRecordNotFound) || isMissingTableError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	return versions, nil
}

func isMissingTableError(err error) bool {
	msg := err.Error()
	if strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist") {
		return true // postgres
	}
	return strings.Contains(msg, "no such table") // sqlite
}

func (l migrationLedger) apply(ctx context.Context, m Migration) error {
	if err := l.db.WithContext(ctx).Exec(m.UpScript).Error; err != nil {
		return fmt.Errorf("failed to apply migration %s: %w", m.String(), err)
	}
	record := MigrationLog{Version: m.Version, Name: m.Name}
	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to record migration %s: %w", m.String(), err)
	}
	middleware.Logger.Info("Migration applied", slog.Int("version", m.Version), slog.String("name", m.Name))
	return nil
}

func (l migrationLedger) revert(ctx context.Context, m Migration) error {
	if err := l.db.WithContext(ctx).Exec(m.DownScript).Error; err != nil {
		return fmt.Errorf("failed to roll back migration %s: %w", m.String(), err)
	}
	if err := l.db.WithContext(ctx).Where("version = ?", m.Version).Delete(&MigrationLog{}).Error; err != nil {
		return fmt.Errorf("failed to remove migration record %d: %w", m.Version, err)
	}
	middleware.Logger.Info("Migration rolled back", slog.Int("version", m.Version), slog.String("name", m.Name))
	return nil
}

func (l migrationLedger) ensureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_migration_logs_applied_at ON migration_logs (applied_at);`
	if err := l.db.WithContext(ctx).Exec(ddl).Error; err != nil {
		return fmt.Errorf("failed to ensure migration logs table: %w", err)
	}
	return nil
}

// RunMigrations applies every embedded migration that is not yet recorded in
// the ledger, in version order.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	ledger := migrationLedger{db: db}
	if err := ledger.ensureTable(ctx); err != nil {
		return err
	}

	applied, err := ledger.applied(ctx)
	if err != nil {
		return err
	}
	if err := validateAppliedVersions(applied, migrations); err != nil {
		return err
	}

	appliedSet := make(map[int]bool, len(applied))
	for _, v := range applied {
		appliedSet[v] = true
	}

	for _, m := range migrations {
		if appliedSet[m.Version] {
			continue
		}
		middleware.Logger.Info("Applying migration", slog.Int("version", m.Version), slog.String("name", m.Name))
		if err := ledger.apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// validateAppliedVersions rejects a ledger that records versions this binary
// does not know, which means the database is ahead of the code.
func validateAppliedVersions(applied []int, known []Migration) error {
	knownSet := make(map[int]struct{}, len(known))
	for _, m := range known {
		knownSet[m.Version] = struct{}{}
	}

	var unknown []int
	for _, version := range applied {
		if _, ok := knownSet[version]; !ok {
			unknown = append(unknown, version)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	sort.Ints(unknown)
	parts := make([]string, 0, len(unknown))
	for _, version := range unknown {
		parts = append(parts, fmt.Sprintf("%06d", version))
	}
	return fmt.Errorf("migration_logs records versions unknown to this build: %s (deploy a newer binary or rebuild the dev database)",
		strings.Join(parts, ", "))
}

// RollbackMigration reverts one applied migration by version.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	ledger := migrationLedger{db: db}
	applied, err := ledger.applied(ctx)
	if err != nil {
		return err
	}

	isApplied := false
	for _, v := range applied {
		if v == version {
			isApplied = true
			break
		}
	}
	if !isApplied {
		return fmt.Errorf("migration %d has not been applied", version)
	}

	return ledger.revert(ctx, *m)
}
