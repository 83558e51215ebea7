package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// TasasSnapshot is what the configured rate source returns: VES per USD.
type TasasSnapshot struct {
	Fecha        string          `json:"fecha"` // YYYY-MM-DD
	TasaBCV      decimal.Decimal `json:"bcv"`
	TasaParalelo decimal.Decimal `json:"paralelo"`
}

// TasasClient polls an HTTP endpoint publishing the daily BCV and parallel rates.
type TasasClient struct {
	sourceURL  string
	httpClient *http.Client
}

func NewTasasClient(sourceURL string) *TasasClient {
	return &TasasClient{
		sourceURL:  sourceURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether a source URL was provided.
func (c *TasasClient) Configured() bool { return c != nil && c.sourceURL != "" }

// Obtener fetches the current snapshot.
func (c *TasasClient) Obtener(ctx context.Context) (*TasasSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("tasas: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tasas: source unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tasas: source returned %d", resp.StatusCode)
	}

	var snap TasasSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("tasas: decode response: %w", err)
	}
	if !snap.TasaBCV.IsPositive() || !snap.TasaParalelo.IsPositive() {
		return nil, fmt.Errorf("tasas: source returned non-positive rates")
	}
	return &snap, nil
}
