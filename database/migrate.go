package database

import (
	"fmt"
	"sort"

	"github.com/rpupo63/ailabs-portal-backend/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AllModels lists every table the application owns, in creation order.
func AllModels() []any {
	return []any{
		&models.User{},
		&models.UserSession{},
		&models.ContactQuery{},
		&models.PartnershipRequest{},
		&models.JobApplication{},
		&models.Project{},
		&models.Event{},
		&models.Vacancy{},
	}
}

// Migrate brings the schema up to date. Tables that already exist first get
// any missing columns (for example slug on rows created before slugs), so the
// unique indexes created afterwards always have a column to attach to.
func Migrate(db *gorm.DB) error {
	for _, model := range AllModels() {
		if err := addMissingColumns(db, model); err != nil {
			return err
		}
	}

	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	mismatches, err := ColumnMismatchReport(db)
	if err != nil {
		return err
	}
	for table, columns := range mismatches {
		log.Warn().Str("table", table).Strs("columns", columns).Msg("Database columns not accounted for in model")
	}
	return nil
}

func addMissingColumns(db *gorm.DB, model any) error {
	migrator := db.Migrator()
	if !migrator.HasTable(model) {
		return nil
	}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Errorf("parse model %T: %w", model, err)
	}

	for _, field := range stmt.Schema.Fields {
		if field.DBName == "" || migrator.HasColumn(model, field.DBName) {
			continue
		}
		log.Info().Str("table", stmt.Schema.Table).Str("column", field.DBName).Msg("Adding missing column")
		if err := migrator.AddColumn(model, field.Name); err != nil {
			return fmt.Errorf("add column %s.%s: %w", stmt.Schema.Table, field.DBName, err)
		}
	}
	return nil
}

// ColumnMismatchReport returns, per table, the columns present in the
// database but not declared on the model.
func ColumnMismatchReport(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)
	migrator := db.Migrator()

	for _, model := range AllModels() {
		if !migrator.HasTable(model) {
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}

		columnTypes, err := migrator.ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("error querying columns for table %s: %w", stmt.Schema.Table, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		if mismatches := findColumnMismatches(dbColumns, stmt.Schema.DBNames); len(mismatches) > 0 {
			report[stmt.Schema.Table] = mismatches
		}
	}
	return report, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
