package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/dietwater/internal/food"
	"github.com/KaramelBytes/dietwater/internal/survey"
)

// SQLite writes the output tables to a SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: set busy timeout")
	}
	return &SQLite{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS survey_outliers (
	mc_run_id      TEXT,
	grouping       TEXT NOT NULL,
	mean_watscar   REAL,
	mean_watuse    REAL,
	sd_watscar     REAL,
	sd_watuse      REAL,
	n_participants REAL,
	sex            TEXT,
	diet_group     TEXT,
	age_group      TEXT,
	diet_sex_group TEXT NOT NULL,
	outliers       INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS food_treemap (
	food_name           TEXT NOT NULL,
	id                  TEXT,
	product_details     TEXT,
	country_origin      TEXT,
	water_use_l         REAL,
	scarcity_weighted_l REAL,
	supply_chain_weight REAL
);

CREATE INDEX IF NOT EXISTS idx_survey_outliers_grouping ON survey_outliers(grouping);
CREATE INDEX IF NOT EXISTS idx_food_treemap_food_name ON food_treemap(food_name);
`

// Migrate creates the tables if they do not exist.
func (s *SQLite) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ReplaceSurvey replaces the survey table contents with recs.
func (s *SQLite) ReplaceSurvey(ctx context.Context, recs []survey.Labeled) (int64, error) {
	return s.replace(ctx, SurveyTable, SurveyColumns, SurveyRows(recs))
}

// ReplaceFoods replaces the food table contents with recs.
func (s *SQLite) ReplaceFoods(ctx context.Context, recs []food.Record) (int64, error) {
	return s.replace(ctx, FoodTable, FoodColumns, FoodRows(recs))
}

// Count returns the number of rows in table.
func (s *SQLite) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	// table is one of the package constants, never user input.
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: count %s", table)
	}
	return n, nil
}

func (s *SQLite) replace(ctx context.Context, table string, cols []string, rows [][]any) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return 0, eris.Wrapf(err, "sqlite: clear %s", table)
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), marks))
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: prepare insert %s", table)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert %s row %d", table, i)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return int64(len(rows)), nil
}
