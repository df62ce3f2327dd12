package postgres

import (
	"github.com/freshnest/backoffice/internal/prediction"
	"gorm.io/gorm"
)

// PredictionRepository implements prediction.Repository using GORM
type PredictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) prediction.Repository {
	return &PredictionRepository{db: db}
}

// UpsertBySKU replaces the stored forecast for a product.
func (r *PredictionRepository) UpsertBySKU(p *prediction.Prediction) error {
	var existing prediction.Prediction
	err := r.db.Where("product_sku = ?", p.ProductSKU).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(p).Error
	}
	if err != nil {
		return err
	}

	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	return r.db.Save(p).Error
}

func (r *PredictionRepository) ListAll() ([]*prediction.Prediction, error) {
	var predictions []*prediction.Prediction
	err := r.db.Order("updated_at DESC").Find(&predictions).Error
	return predictions, err
}

func (r *PredictionRepository) Summary() (*prediction.Summary, error) {
	var summary prediction.Summary
	if err := r.db.Model(&prediction.Prediction{}).Count(&summary.Total).Error; err != nil {
		return nil, err
	}

	counts := map[string]*int64{
		prediction.RiskSafe:     &summary.Safe,
		prediction.RiskWarning:  &summary.Warning,
		prediction.RiskCritical: &summary.Critical,
	}
	for status, dest := range counts {
		err := r.db.Model(&prediction.Prediction{}).
			Where("risk_status = ?", status).Count(dest).Error
		if err != nil {
			return nil, err
		}
	}
	return &summary, nil
}
