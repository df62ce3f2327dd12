package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/freshnest/backoffice/internal"
)

// ProductInput is the product snapshot handed to the prediction process.
type ProductInput struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Stock    int     `json:"stock"`
	Price    float64 `json:"price"`
}

// SaleInput is one historical sale row handed to the prediction process.
type SaleInput struct {
	SKU      string    `json:"sku"`
	Quantity int       `json:"quantity"`
	Amount   float64   `json:"amount"`
	SoldAt   time.Time `json:"sold_at"`
}

// BridgeInput is the JSON document written to the subprocess stdin.
type BridgeInput struct {
	Products []ProductInput `json:"products"`
	Sales    []SaleInput    `json:"sales"`
}

// BridgeOutput is one prediction row read back from stdout.
type BridgeOutput struct {
	ProductSKU                string  `json:"product_sku"`
	ProductName               string  `json:"product_name"`
	CurrentStock              int     `json:"current_stock"`
	PredictedDemand           float64 `json:"predicted_demand"`
	ConfidenceLevel           float64 `json:"confidence_level"`
	RiskStatus                string  `json:"risk_status"`
	NextRestockRecommendation string  `json:"next_restock_recommendation"`
	Reason                    string  `json:"reason"`
}

// Runner executes the external prediction process.
type Runner interface {
	Run(ctx context.Context, input BridgeInput) ([]BridgeOutput, error)
}

// SubprocessRunner pipes JSON to the configured command over stdin and parses
// its stdout. A non-zero exit, malformed JSON or an error payload fails the
// run; nothing is retried.
type SubprocessRunner struct {
	cfg internal.PredictionConfig
}

func NewSubprocessRunner(cfg internal.PredictionConfig) *SubprocessRunner {
	return &SubprocessRunner{cfg: cfg}
}

func predictionError(message string, cause error) *internal.AppError {
	err := internal.NewInternalError(message, cause)
	err.Code = internal.ErrCodePredictionFailed
	return err
}

func (r *SubprocessRunner) Run(ctx context.Context, input BridgeInput) ([]BridgeOutput, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, predictionError("failed to encode prediction input", err)
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.cfg.Command, r.cfg.Script)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, predictionError(
			fmt.Sprintf("prediction process failed: %s", stderr.String()), err)
	}

	return parseOutput(stdout.Bytes())
}

func parseOutput(raw []byte) ([]BridgeOutput, error) {
	var predictions []BridgeOutput
	if err := json.Unmarshal(raw, &predictions); err == nil {
		return predictions, nil
	}

	var failure struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &failure); err == nil && failure.Error != "" {
		return nil, predictionError("prediction failed: "+failure.Error, nil)
	}
	return nil, predictionError("prediction process returned malformed JSON", nil)
}
