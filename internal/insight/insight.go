// Package insight is the optional qualitative-analysis collaborator. The
// deterministic scoring result is complete without it; when the generator is
// absent or fails, a fixed fallback text is substituted.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Request identifies the property being analyzed and its deterministic
// scores; the collaborator sees nothing else.
type Request struct {
	PropertyID string `json:"property_id"`
	BaseScore  int    `json:"base_score"`
	FinalScore int    `json:"final_score"`
}

// Insight is the free-text overlay returned by the collaborator.
type Insight struct {
	Verdict       string `json:"verdict"`
	Upside        string `json:"upside"`
	Risks         string `json:"risks"`
	Justification string `json:"justification"`
}

// Generator produces a qualitative overlay for a scored property.
type Generator interface {
	Generate(ctx context.Context, req Request) (Insight, error)
}

// Fallback is the documented substitute used whenever no generator is
// configured or the generator returns an error or an empty payload.
func Fallback() Insight {
	return Insight{
		Upside:        "Not analyzed",
		Risks:         "Not analyzed",
		Justification: "Qualitative analysis unavailable; score is based on the deterministic formula only.",
	}
}

// HTTPGenerator posts the request as JSON to a configured endpoint.
type HTTPGenerator struct {
	endpoint string
	client   *http.Client
	logger   *logrus.Logger
}

// NewHTTPGenerator creates a generator for the given endpoint.
func NewHTTPGenerator(endpoint string, timeout time.Duration, logger *logrus.Logger) *HTTPGenerator {
	return &HTTPGenerator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Generate calls the collaborator endpoint. An empty justification in the
// response is treated as invalid so the caller substitutes the fallback.
func (g *HTTPGenerator) Generate(ctx context.Context, req Request) (Insight, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Insight{}, fmt.Errorf("failed to marshal insight request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Insight{}, fmt.Errorf("failed to create insight request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return Insight{}, fmt.Errorf("insight request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Insight{}, fmt.Errorf("insight endpoint returned status %d", resp.StatusCode)
	}

	var in Insight
	if err := json.NewDecoder(resp.Body).Decode(&in); err != nil {
		return Insight{}, fmt.Errorf("failed to decode insight response: %w", err)
	}
	if strings.TrimSpace(in.Justification) == "" {
		return Insight{}, fmt.Errorf("insight response missing justification")
	}
	return in, nil
}
