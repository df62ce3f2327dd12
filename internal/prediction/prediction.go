package prediction

import (
	"time"
)

const (
	RiskSafe     = "SAFE"
	RiskWarning  = "WARNING"
	RiskCritical = "CRITICAL"
)

// Prediction is the stored demand forecast for one product, upserted by SKU
// on every run.
type Prediction struct {
	ID                        int64     `json:"id" gorm:"primaryKey"`
	ProductSKU                string    `json:"product_sku" gorm:"column:product_sku;uniqueIndex;not null"`
	ProductName               string    `json:"product_name" gorm:"column:product_name"`
	CurrentStock              int       `json:"current_stock" gorm:"column:current_stock"`
	PredictedDemand           float64   `json:"predicted_demand" gorm:"column:predicted_demand"`
	ConfidenceLevel           float64   `json:"confidence_level" gorm:"column:confidence_level"`
	RiskStatus                string    `json:"risk_status" gorm:"column:risk_status"`
	NextRestockRecommendation string    `json:"next_restock_recommendation" gorm:"column:next_restock_recommendation"`
	Reason                    string    `json:"reason"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

func (Prediction) TableName() string {
	return "demand_predictions"
}

// Summary is the dashboard rollup over the latest predictions.
type Summary struct {
	Total    int64 `json:"total"`
	Safe     int64 `json:"safe"`
	Warning  int64 `json:"warning"`
	Critical int64 `json:"critical"`
}

// riskRank orders risks worst first for dashboard sorting.
func riskRank(status string) int {
	switch status {
	case RiskCritical:
		return 0
	case RiskWarning:
		return 1
	case RiskSafe:
		return 2
	}
	return 3
}
