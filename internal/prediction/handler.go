package prediction

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/freshnest/backoffice/internal/transport"
	"github.com/freshnest/backoffice/pkg/logger"
)

type ServiceAPI interface {
	Refresh(ctx context.Context) ([]*Prediction, error)
	Dashboard() (*Summary, []*Prediction, []*Prediction, error)
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

func (h *Handler) RefreshPredictions(w http.ResponseWriter, r *http.Request) {
	predictions, err := h.Service.Refresh(r.Context())
	if err != nil {
		h.Logger.Error("RefreshPredictions: run failed", "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "predictions refreshed", predictions)
}

func (h *Handler) PredictionDashboard(w http.ResponseWriter, r *http.Request) {
	summary, predictions, top, err := h.Service.Dashboard()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"summary":     summary,
		"predictions": predictions,
		"top_risky":   top,
	})
}
