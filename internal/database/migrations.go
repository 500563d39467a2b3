package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type compositeIndex struct {
	table   string
	name    string
	columns string
}

// Composite indexes GORM's struct tags cannot express on their own.
var compositeIndexes = []compositeIndex{
	// Active/archived list ordered by creation
	{"groups", "idx_groups_archived_created_at", "archived, created_at"},
	// Dashboard pending counts
	{"groups", "idx_groups_archived_paid_picked_up", "archived, paid, picked_up"},
	// Group detail submission listing
	{"form_submissions", "idx_form_submissions_group_created_at", "group_id, created_at"},
}

// AddIndexes adds the composite indexes, skipping any that already exist.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		// groups is a reserved word in MySQL 8 so the table is always quoted.
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, quoteTable(db, idx.table), idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}

func quoteTable(db *gorm.DB, table string) string {
	var b strings.Builder
	db.Dialector.QuoteTo(&b, table)
	return b.String()
}
