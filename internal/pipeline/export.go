package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/KaramelBytes/dietwater/internal/export"
	"github.com/KaramelBytes/dietwater/internal/food"
	"github.com/KaramelBytes/dietwater/internal/store"
	"github.com/KaramelBytes/dietwater/internal/survey"
	"github.com/KaramelBytes/dietwater/internal/utils"
)

func exportSQLite(ctx context.Context, path string, labeled []survey.Labeled, foods []food.Record) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	db, err := store.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}
	ns, err := db.ReplaceSurvey(ctx, labeled)
	if err != nil {
		return err
	}
	nf, err := db.ReplaceFoods(ctx, foods)
	if err != nil {
		return err
	}
	zap.L().Info("exported to sqlite", zap.String("path", path), zap.Int64("survey_rows", ns), zap.Int64("food_rows", nf))
	return nil
}

func exportXLSX(path string, labeled []survey.Labeled, foods []food.Record) error {
	if err := export.WriteWorkbook(path, labeled, foods); err != nil {
		return err
	}
	zap.L().Info("exported workbook", zap.String("path", path))
	return nil
}

func exportPostgres(ctx context.Context, url string, labeled []survey.Labeled, foods []food.Record) error {
	pg, err := store.NewPostgres(ctx, url)
	if err != nil {
		return err
	}
	defer pg.Close()
	return copyPostgres(ctx, pg, labeled, foods)
}

func copyPostgres(ctx context.Context, pg *store.Postgres, labeled []survey.Labeled, foods []food.Record) error {
	if err := pg.Migrate(ctx); err != nil {
		return err
	}
	ns, err := pg.CopySurvey(ctx, labeled)
	if err != nil {
		return err
	}
	nf, err := pg.CopyFoods(ctx, foods)
	if err != nil {
		return err
	}
	zap.L().Info("exported to postgres", zap.Int64("survey_rows", ns), zap.Int64("food_rows", nf))
	return nil
}
