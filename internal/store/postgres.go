package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/KaramelBytes/dietwater/internal/food"
	"github.com/KaramelBytes/dietwater/internal/survey"
)

// Pool is the subset of pgxpool.Pool the exporter needs.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Postgres bulk loads the output tables with COPY.
type Postgres struct {
	pool    Pool
	closeFn func()
}

// NewPostgres connects to connString.
func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &Postgres{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool.
func NewPostgresWithPool(pool Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Close releases the pool if NewPostgres opened it.
func (p *Postgres) Close() {
	if p.closeFn != nil {
		p.closeFn()
	}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS survey_outliers (
	mc_run_id      TEXT,
	grouping       TEXT NOT NULL,
	mean_watscar   DOUBLE PRECISION,
	mean_watuse    DOUBLE PRECISION,
	sd_watscar     DOUBLE PRECISION,
	sd_watuse      DOUBLE PRECISION,
	n_participants DOUBLE PRECISION,
	sex            TEXT,
	diet_group     TEXT,
	age_group      TEXT,
	diet_sex_group TEXT NOT NULL,
	outliers       BIGINT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS food_treemap (
	food_name           TEXT NOT NULL,
	id                  TEXT,
	product_details     TEXT,
	country_origin      TEXT,
	water_use_l         DOUBLE PRECISION,
	scarcity_weighted_l DOUBLE PRECISION,
	supply_chain_weight DOUBLE PRECISION
);
`

// Migrate creates the tables if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// CopySurvey replaces the survey table contents with recs.
func (p *Postgres) CopySurvey(ctx context.Context, recs []survey.Labeled) (int64, error) {
	return p.replace(ctx, SurveyTable, SurveyColumns, SurveyRows(recs))
}

// CopyFoods replaces the food table contents with recs.
func (p *Postgres) CopyFoods(ctx context.Context, recs []food.Record) (int64, error) {
	return p.replace(ctx, FoodTable, FoodColumns, FoodRows(recs))
}

func (p *Postgres) replace(ctx context.Context, table string, cols []string, rows [][]any) (int64, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin")
	}
	if _, err := tx.Exec(ctx, "TRUNCATE "+pgx.Identifier{table}.Sanitize()); err != nil {
		_ = tx.Rollback(ctx)
		return 0, eris.Wrapf(err, "postgres: truncate %s", table)
	}
	var n int64
	if len(rows) > 0 {
		n, err = tx.CopyFrom(ctx, pgx.Identifier{table}, cols, pgx.CopyFromRows(rows))
		if err != nil {
			_ = tx.Rollback(ctx)
			return 0, eris.Wrapf(err, "postgres: COPY INTO %s", table)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit")
	}
	return n, nil
}
