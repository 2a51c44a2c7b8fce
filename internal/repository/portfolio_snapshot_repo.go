package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stocksim/internal/dto"
	"stocksim/internal/model"
	"stocksim/pkg/utils"
)

type PortfolioSnapshotRepository interface {
	Upsert(ctx context.Context, snapshot *model.PortfolioSnapshot, opts ...utils.DBOption) error
	ListRange(ctx context.Context, param dto.SnapshotRangeParam, opts ...utils.DBOption) ([]model.PortfolioSnapshot, error)
}

type portfolioSnapshotRepository struct {
	db *gorm.DB
}

func NewPortfolioSnapshotRepository(db *gorm.DB) PortfolioSnapshotRepository {
	return &portfolioSnapshotRepository{
		db: db,
	}
}

// Upsert writes the snapshot for (portfolio, date), overwriting the value
// fields when the row already exists. Last write wins for a given day.
func (r *portfolioSnapshotRepository) Upsert(ctx context.Context, snapshot *model.PortfolioSnapshot, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "portfolio_id"}, {Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_value", "cash_balance", "unrealized_gain", "updated_at",
		}),
	}).Create(snapshot).Error
}

func (r *portfolioSnapshotRepository) ListRange(ctx context.Context, param dto.SnapshotRangeParam, opts ...utils.DBOption) ([]model.PortfolioSnapshot, error) {
	var snapshots []model.PortfolioSnapshot
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	tx = tx.Where("portfolio_id = ?", param.PortfolioID)
	if !param.From.IsZero() {
		tx = tx.Where("snapshot_date >= ?", param.From)
	}
	if !param.To.IsZero() {
		tx = tx.Where("snapshot_date <= ?", param.To)
	}

	if err := tx.Order("snapshot_date asc").Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}
