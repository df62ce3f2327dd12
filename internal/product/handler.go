package product

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/freshnest/backoffice/internal/transport"
	"github.com/freshnest/backoffice/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(dto CreateProductDTO) (*Product, error)
	Update(id int64, dto UpdateProductDTO) (*Product, error)
	Delete(id int64, permanent bool) error
	GetByID(id int64) (*Product, error)
	List(filter ListProductsFilter) ([]*Product, int64, error)
	LowStock() ([]*Product, error)
	ImportCSV(r io.Reader) (*ImportResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var dto CreateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("CreateProduct: service error", "error", err, "sku", dto.SKU)
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusCreated, "product created", p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var dto UpdateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Update(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "product updated", p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"
	if err := h.Service.Delete(id, permanent); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "product deleted", nil)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.Service.GetByID(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, limit := transport.PageParams(r)
	filter := ListProductsFilter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
		Page:     page,
		Limit:    limit,
	}

	products, total, err := h.Service.List(filter)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"products":   products,
		"pagination": transport.NewPagination(page, limit, total),
	})
}

func (h *Handler) LowStockProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.LowStock()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, products)
}

// ImportProducts accepts a CSV upload, either as a multipart "file" field or
// as a raw text/csv body.
func (h *Handler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	var src io.Reader = r.Body
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		src = file
	}

	result, err := h.Service.ImportCSV(src)
	if err != nil {
		h.Logger.Error("ImportProducts: import failed", "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "import complete", result)
}
