package prediction

import (
	"context"
	"log/slog"
	"sort"

	"github.com/freshnest/backoffice/internal/product"
	"github.com/freshnest/backoffice/internal/purchase"
)

// Repository defines the data access methods for predictions
type Repository interface {
	UpsertBySKU(p *Prediction) error
	ListAll() ([]*Prediction, error)
	Summary() (*Summary, error)
}

// ProductSource supplies the catalog snapshot fed to the predictor.
type ProductSource interface {
	List(filter product.ListProductsFilter) ([]*product.Product, int64, error)
}

// SalesSource supplies recent sales history fed to the predictor.
type SalesSource interface {
	ListAll(filter purchase.ListPurchasesFilter) ([]*purchase.Purchase, int64, error)
}

type Service struct {
	repo     Repository
	runner   Runner
	products ProductSource
	sales    SalesSource
	logger   *slog.Logger
}

func NewService(repo Repository, runner Runner, products ProductSource, sales SalesSource, logger *slog.Logger) *Service {
	return &Service{repo: repo, runner: runner, products: products, sales: sales, logger: logger}
}

// Refresh runs the predictor against the current catalog and sales history
// and upserts the results by SKU. Any subprocess failure fails the request.
func (s *Service) Refresh(ctx context.Context) ([]*Prediction, error) {
	input, err := s.gatherInput()
	if err != nil {
		return nil, err
	}

	outputs, err := s.runner.Run(ctx, input)
	if err != nil {
		s.logger.Error("prediction run failed", "error", err)
		return nil, err
	}

	predictions := make([]*Prediction, 0, len(outputs))
	for _, out := range outputs {
		p := &Prediction{
			ProductSKU:                product.NormalizeSKU(out.ProductSKU),
			ProductName:               out.ProductName,
			CurrentStock:              out.CurrentStock,
			PredictedDemand:           out.PredictedDemand,
			ConfidenceLevel:           out.ConfidenceLevel,
			RiskStatus:                out.RiskStatus,
			NextRestockRecommendation: out.NextRestockRecommendation,
			Reason:                    out.Reason,
		}
		if err := s.repo.UpsertBySKU(p); err != nil {
			s.logger.Warn("failed to store prediction", "sku", p.ProductSKU, "error", err)
			continue
		}
		predictions = append(predictions, p)
	}

	sortByRisk(predictions)
	return predictions, nil
}

// Dashboard returns the stored predictions worst risk first plus a summary
// and the five riskiest products.
func (s *Service) Dashboard() (*Summary, []*Prediction, []*Prediction, error) {
	summary, err := s.repo.Summary()
	if err != nil {
		return nil, nil, nil, err
	}

	predictions, err := s.repo.ListAll()
	if err != nil {
		return nil, nil, nil, err
	}
	sortByRisk(predictions)

	top := predictions
	if len(top) > 5 {
		top = top[:5]
	}
	return summary, predictions, top, nil
}

func (s *Service) gatherInput() (BridgeInput, error) {
	products, _, err := s.products.List(product.ListProductsFilter{
		Status: product.StatusActive, Page: 1, Limit: 1000,
	})
	if err != nil {
		return BridgeInput{}, err
	}

	purchases, _, err := s.sales.ListAll(purchase.ListPurchasesFilter{Page: 1, Limit: 1000})
	if err != nil {
		return BridgeInput{}, err
	}

	input := BridgeInput{
		Products: make([]ProductInput, 0, len(products)),
		Sales:    []SaleInput{},
	}
	for _, p := range products {
		input.Products = append(input.Products, ProductInput{
			SKU:      p.SKU,
			Name:     p.Name,
			Category: p.Category,
			Stock:    p.Stock,
			Price:    p.Price,
		})
	}
	for _, pu := range purchases {
		for _, item := range pu.Items {
			if item.SKU == "" {
				continue
			}
			input.Sales = append(input.Sales, SaleInput{
				SKU:      product.NormalizeSKU(item.SKU),
				Quantity: item.Quantity,
				Amount:   item.Price * float64(item.Quantity),
				SoldAt:   pu.CreatedAt,
			})
		}
	}
	return input, nil
}

func sortByRisk(predictions []*Prediction) {
	sort.SliceStable(predictions, func(i, j int) bool {
		ri, rj := riskRank(predictions[i].RiskStatus), riskRank(predictions[j].RiskStatus)
		if ri != rj {
			return ri < rj
		}
		return predictions[i].PredictedDemand > predictions[j].PredictedDemand
	})
}
