package repository

import (
	"context"

	"taxreport/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRunRepository interface {
	Create(ctx context.Context, run *model.ReportRun) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReportRun, error)
	List(ctx context.Context, page, limit int) ([]model.ReportRun, int64, error)
}

type reportRunRepository struct {
	db *gorm.DB
}

func NewReportRunRepository(db *gorm.DB) ReportRunRepository {
	return &reportRunRepository{db: db}
}

func (r *reportRunRepository) Create(ctx context.Context, run *model.ReportRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *reportRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ReportRun, error) {
	var run model.ReportRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *reportRunRepository) List(ctx context.Context, page, limit int) ([]model.ReportRun, int64, error) {
	var runs []model.ReportRun
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ReportRun{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&runs).Error; err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}
