package product

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/freshnest/backoffice/internal"
	"github.com/freshnest/backoffice/internal/catalog"
	"github.com/freshnest/backoffice/internal/core/events"
)

// Repository defines the data access methods for products
type Repository interface {
	Create(p *Product) error
	GetByID(id int64) (*Product, error)
	GetBySKU(sku string) (*Product, error)
	Update(p *Product) error
	Delete(id int64) error
	List(filter ListProductsFilter) ([]*Product, int64, error)
	CountByStatus() (total, active int64, err error)
	ListBelowStock(threshold int) ([]*Product, error)
}

type Service struct {
	repo      Repository
	bus       *events.EventBus
	threshold int
	logger    *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, lowStockThreshold int, logger *slog.Logger) *Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = 10
	}
	return &Service{repo: repo, bus: bus, threshold: lowStockThreshold, logger: logger}
}

func (s *Service) Create(dto CreateProductDTO) (*Product, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	sku := NormalizeSKU(dto.SKU)
	if existing, err := s.repo.GetBySKU(sku); err == nil && existing != nil {
		return nil, internal.NewConflictError(
			fmt.Sprintf("a product with SKU %s already exists", sku), internal.ErrCodeDuplicateSKU)
	}

	category := catalog.NormalizeCategory(dto.Category)
	p := &Product{
		Name:        strings.TrimSpace(dto.Name),
		SKU:         sku,
		Category:    category,
		Brand:       catalog.NormalizeBrandForCategory(dto.Brand, category),
		Description: dto.Description,
		Price:       dto.Price,
		CostPrice:   dto.CostPrice,
		Stock:       dto.Stock,
		Unit:        defaultUnit(dto.Unit),
		Status:      StatusActive,
	}
	if err := s.repo.Create(p); err != nil {
		return nil, internal.NewInternalError("failed to create product", err)
	}

	s.checkStock(p)
	return p, nil
}

func (s *Service) Update(id int64, dto UpdateProductDTO) (*Product, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		p.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Category != nil {
		p.Category = catalog.NormalizeCategory(*dto.Category)
	}
	if dto.Brand != nil {
		p.Brand = catalog.NormalizeBrandForCategory(*dto.Brand, p.Category)
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}
	if dto.Price != nil {
		p.Price = *dto.Price
	}
	if dto.CostPrice != nil {
		p.CostPrice = *dto.CostPrice
	}
	stockChanged := false
	if dto.Stock != nil {
		p.Stock = *dto.Stock
		stockChanged = true
	}
	if dto.Unit != nil {
		p.Unit = defaultUnit(*dto.Unit)
	}
	if dto.Status != nil {
		p.Status = *dto.Status
	}

	if err := s.repo.Update(p); err != nil {
		return nil, internal.NewInternalError("failed to update product", err)
	}

	if stockChanged {
		s.checkStock(p)
	}
	return p, nil
}

// Delete flips the product inactive; permanent removes the row.
func (s *Service) Delete(id int64, permanent bool) error {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if permanent {
		return s.repo.Delete(id)
	}
	p.Status = StatusInactive
	return s.repo.Update(p)
}

func (s *Service) GetByID(id int64) (*Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) List(filter ListProductsFilter) ([]*Product, int64, error) {
	if filter.Category != "" {
		filter.Category = catalog.NormalizeCategory(filter.Category)
	}
	return s.repo.List(filter)
}

func (s *Service) LowStock() ([]*Product, error) {
	return s.repo.ListBelowStock(s.threshold)
}

// csvAliases maps tolerated header spellings to canonical column names.
var csvAliases = map[string]string{
	"name": "name", "product_name": "name", "product": "name", "title": "name",
	"sku": "sku", "code": "sku", "product_code": "sku",
	"category": "category",
	"brand":    "brand",
	"description": "description", "desc": "description",
	"price": "price", "selling_price": "price", "mrp": "price",
	"cost": "cost", "cost_price": "cost", "costprice": "cost",
	"stock": "stock", "quantity": "stock", "qty": "stock",
	"unit": "unit",
}

// ImportCSV upserts products keyed by uppercased SKU. Malformed rows are
// collected into the result; the batch itself never fails on a row error.
func (s *Service) ImportCSV(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, internal.NewValidationError("empty or unreadable CSV", internal.ErrCodeValidationFailed)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := csvAliases[key]; ok {
			columns[canonical] = i
		}
	}
	if _, ok := columns["sku"]; !ok {
		return nil, internal.NewValidationError("CSV is missing a sku column", internal.ErrCodeValidationFailed)
	}
	if _, ok := columns["name"]; !ok {
		return nil, internal.NewValidationError("CSV is missing a name column", internal.ErrCodeValidationFailed)
	}

	result := &ImportResult{Errors: []ImportRowError{}}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{Error: err.Error()})
			continue
		}

		sku := NormalizeSKU(field(row, columns, "sku"))
		created, rowErr := s.importRow(row, columns, sku)
		if rowErr != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{SKU: sku, Error: rowErr.Error()})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

func (s *Service) importRow(row []string, columns map[string]int, sku string) (created bool, err error) {
	if sku == "" {
		return false, errors.New("sku is required")
	}
	name := strings.TrimSpace(field(row, columns, "name"))
	if name == "" {
		return false, errors.New("name is required")
	}

	price, err := parseFloat(field(row, columns, "price"))
	if err != nil {
		return false, fmt.Errorf("invalid price: %w", err)
	}
	cost, err := parseFloat(field(row, columns, "cost"))
	if err != nil {
		return false, fmt.Errorf("invalid cost: %w", err)
	}
	stock, err := parseInt(field(row, columns, "stock"))
	if err != nil {
		return false, fmt.Errorf("invalid stock: %w", err)
	}
	if price < 0 || cost < 0 || stock < 0 {
		return false, errors.New("price, cost and stock cannot be negative")
	}

	category := catalog.NormalizeCategory(field(row, columns, "category"))
	brand := catalog.NormalizeBrandForCategory(field(row, columns, "brand"), category)

	existing, lookupErr := s.repo.GetBySKU(sku)
	if lookupErr != nil {
		if !internal.IsNotFound(lookupErr) {
			return false, lookupErr
		}
		p := &Product{
			Name:        name,
			SKU:         sku,
			Category:    category,
			Brand:       brand,
			Description: field(row, columns, "description"),
			Price:       price,
			CostPrice:   cost,
			Stock:       stock,
			Unit:        defaultUnit(field(row, columns, "unit")),
			Status:      StatusActive,
		}
		if err := s.repo.Create(p); err != nil {
			return false, err
		}
		s.checkStock(p)
		return true, nil
	}

	existing.Name = name
	existing.Category = category
	existing.Brand = brand
	if desc := field(row, columns, "description"); desc != "" {
		existing.Description = desc
	}
	existing.Price = price
	existing.CostPrice = cost
	existing.Stock = stock
	if err := s.repo.Update(existing); err != nil {
		return false, err
	}
	s.checkStock(existing)
	return false, nil
}

// checkStock publishes a low-stock event when stock sits at or below the
// threshold. Best effort, subscribers handle fanout.
func (s *Service) checkStock(p *Product) {
	if p.Stock > s.threshold {
		return
	}
	s.bus.Publish(context.Background(), events.NewLowStockEvent(p.ID, p.SKU, p.Name, p.Category, p.Stock, s.threshold))
}

func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func defaultUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return "pcs"
	}
	return unit
}
