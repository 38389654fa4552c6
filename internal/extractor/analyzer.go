package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/kaptinlin/jsonrepair"
	"sales-profiler-go/internal/logger"
	"sales-profiler-go/internal/types"
)

// BuildProfilePrompt builds the assessment prompt from the latest
// transcript fragment and the session's current cumulative profile.
func BuildProfilePrompt(transcript string, prior *types.CumulativeProfile) string {
	priorJSON := []byte("{}")
	if prior != nil {
		priorJSON, _ = json.MarshalIndent(prior, "", "  ")
	}

	prompt := `You are an expert sales-psychology profiling engine.

Your job is to analyze:
1. The LATEST SALES CONVERSATION FRAGMENT
2. The CURRENT CUMULATIVE CUSTOMER PROFILE

Produce an updated assessment strictly following the JSON schema below.
Your answers MUST be grounded in the transcript and the prior profile:
- NO outside knowledge
- NO hallucinated scores
If evidence for a trait is missing, omit the trait instead of inventing it.

----------------------------------------------------------------------
SCHEMA (STRICT - RETURN ONLY JSON)
{
  "cumulative_psychology": {
    "big_five": {
      "openness":          {"score": 0, "rationale": "", "strategy": ""},
      "conscientiousness": {"score": 0, "rationale": "", "strategy": ""},
      "extraversion":      {"score": 0, "rationale": "", "strategy": ""},
      "agreeableness":     {"score": 0, "rationale": "", "strategy": ""},
      "neuroticism":       {"score": 0, "rationale": "", "strategy": ""}
    },
    "disc": {
      "dominance":  {"score": 0, "rationale": "", "strategy": ""},
      "influence":  {"score": 0, "rationale": "", "strategy": ""},
      "steadiness": {"score": 0, "rationale": "", "strategy": ""},
      "compliance": {"score": 0, "rationale": "", "strategy": ""}
    },
    "schwartz_values": []
  },
  "psychology_confidence": 0,
  "sales_indicators": {
    "purchase_temperature":   {"value": 0, "temperature_level": "", "rationale": "", "strategy": "", "confidence": 0},
    "customer_journey_stage": {"value": "", "progress_percentage": 0, "next_stage": "", "rationale": "", "strategy": "", "confidence": 0},
    "churn_risk":             {"value": 0, "risk_level": "", "risk_factors": [], "rationale": "", "strategy": "", "confidence": 0},
    "sales_potential":        {"value": 0.0, "probability": 0, "estimated_timeframe": "", "rationale": "", "strategy": "", "confidence": 0}
  }
}
----------------------------------------------------------------------

GUIDELINES:
1. Trait scores are integers 0-10; indicator values follow the schema ranges.
2. Rationale and strategy are written in Polish.
3. DO NOT include commentary.
   DO NOT wrap the JSON in backticks.

----------------------------------------------------------------------
CURRENT CUMULATIVE PROFILE:
%s

TRANSCRIPT FRAGMENT:
%s

----------------------------------------------------------------------
Return ONLY valid JSON that exactly matches the schema.
`

	return fmt.Sprintf(prompt, string(priorJSON), transcript)
}

// Analyze calls the LLM gateway and returns the decoded assessment
// payload. A returned error marks an upstream transport failure and
// should route the caller to the fusion fallback path; a response whose
// content never yields JSON is treated as a malformed payload and comes
// back as an empty document instead.
func Analyze(transcript string, prior *types.CumulativeProfile) (map[string]any, error) {

	var (
		httpTimeout     = 25 * time.Second
		maxRetryTime    = 45 * time.Second
		llmGatewayURL   = os.Getenv("LLM_GATEWAY_URL")
		llmGatewayModel = os.Getenv("LLM_MODEL")
		llmAPIKey       = os.Getenv("LLM_API_KEY")
	)

	log := logger.New().WithField("component", "extractor")

	if os.Getenv("USE_MOCK_LLM") == "true" {
		log.Info("mock LLM mode ON - returning deterministic assessment")
		return mockAssessment(), nil
	}

	if llmGatewayURL == "" || llmAPIKey == "" {
		return nil, fmt.Errorf("llm gateway not configured")
	}

	prompt := BuildProfilePrompt(transcript, prior)
	reqBody := map[string]any{
		"model": llmGatewayModel,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.0,
	}
	data, _ := json.Marshal(reqBody)

	var (
		payload     map[string]any
		lastErr     error
		gotResponse bool
	)

	op := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), httpTimeout)
		defer cancel()

		req, _ := http.NewRequestWithContext(ctx, "POST", llmGatewayURL, bytes.NewReader(data))
		req.Header.Set("Authorization", "Bearer "+llmAPIKey)
		req.Header.Set("Content-Type", "application/json")

		client := &http.Client{Timeout: httpTimeout}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			log.WithError(err).Warn("llm request failed")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		log.WithField("http_status", resp.StatusCode).Debug("llm raw response received")

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			lastErr = fmt.Errorf("llm client error: status %d", resp.StatusCode)
			return backoff.Permanent(lastErr)
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("llm server error: status %d", resp.StatusCode)
			return lastErr
		}
		gotResponse = true

		// Try choices[0].message.content (OpenAI-like)
		if inner := extractContentFromChoices(body); inner != "" {
			if m, ok := ParsePayload(inner); ok {
				payload = m
				lastErr = nil
				return nil
			}
		}

		// Fallback: first balanced JSON anywhere in the body
		if m, ok := ParsePayload(string(body)); ok {
			payload = m
			lastErr = nil
			return nil
		}

		lastErr = fmt.Errorf("no JSON found in LLM output")
		return lastErr
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxRetryTime

	if err := backoff.Retry(op, b); err != nil {
		if gotResponse {
			// The transport delivered something, it just never parsed:
			// malformed payload, not an upstream failure.
			log.WithError(lastErr).Warn("llm content unparseable, proceeding with empty assessment")
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("llm assessment failed: %w", lastErr)
	}

	return payload, nil
}

// ParsePayload locates the first balanced JSON object inside the given
// text and decodes it, running jsonrepair when the candidate is only
// almost-JSON (trailing commas, single quotes, cut-off output).
func ParsePayload(content string) (map[string]any, bool) {
	candidate := extractJSON(content)
	if candidate == "" {
		return nil, false
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(candidate), &m); err == nil {
		return m, true
	}

	fixed, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(fixed), &m); err != nil {
		return nil, false
	}
	return m, true
}

// extractContentFromChoices attempts to read openai-style choices[0].message.content
func extractContentFromChoices(body []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}

	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return ""
	}
	c0, _ := choices[0].(map[string]any)
	if c0 == nil {
		return ""
	}
	msg, _ := c0["message"].(map[string]any)
	if msg == nil {
		return ""
	}
	content, _ := msg["content"].(string)
	return content
}

// extractJSON finds the first balanced JSON object in a string and returns it.
// It strips common markdown fences first.
func extractJSON(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")

	// Remove markdown fences (commonly output by LLMs)
	for _, r := range []string{"```json", "```yaml", "```text", "```", "`json", "`"} {
		s = strings.ReplaceAll(s, r, "")
	}

	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[start : i+1])
			}
		}
	}

	// Unbalanced tail; return the fragment and let jsonrepair finish it.
	return strings.TrimSpace(s[start:])
}

// mockAssessment is the deterministic offline payload for USE_MOCK_LLM=true.
func mockAssessment() map[string]any {
	return map[string]any{
		"cumulative_psychology": map[string]any{
			"big_five": map[string]any{
				"openness": map[string]any{
					"score":     float64(7),
					"rationale": "Klient dopytywał o nowe funkcje i alternatywy.",
					"strategy":  "Pokazuj nowości i scenariusze rozwoju.",
				},
				"conscientiousness": map[string]any{
					"score":     float64(8),
					"rationale": "Prosił o szczegółowy harmonogram wdrożenia.",
					"strategy":  "Dostarcz plan krok po kroku z terminami.",
				},
			},
			"disc": map[string]any{
				"compliance": map[string]any{
					"score":     float64(7),
					"rationale": "Odwoływał się do procedur zakupowych.",
					"strategy":  "Przygotuj dokumentację zgodności.",
				},
			},
			"schwartz_values": []any{"bezpieczeństwo", "osiągnięcia"},
		},
		"psychology_confidence": float64(55),
		"sales_indicators": map[string]any{
			"purchase_temperature": map[string]any{
				"value":             float64(62),
				"temperature_level": "warm",
				"rationale":         "Pyta o cennik, ale odkłada decyzję.",
				"strategy":          "Zaproponuj ograniczoną czasowo ofertę pilotażową.",
				"confidence":        float64(60),
			},
			"customer_journey_stage": map[string]any{
				"value":               "evaluation",
				"progress_percentage": float64(55),
				"rationale":           "Porównuje nas z jednym konkurentem.",
				"strategy":            "Przedstaw tabelę porównawczą.",
				"confidence":          float64(55),
			},
			"churn_risk": map[string]any{
				"value":        float64(25),
				"risk_level":   "low",
				"risk_factors": []any{"wrażliwość cenowa"},
				"rationale":    "Zaangażowany, wraca z pytaniami.",
				"strategy":     "Utrzymuj regularny kontakt.",
				"confidence":   float64(50),
			},
			"sales_potential": map[string]any{
				"value":               float64(48000),
				"probability":         float64(55),
				"estimated_timeframe": "2-3 miesiące",
				"rationale":           "Budżet wstępnie zaakceptowany.",
				"strategy":            "Dopnij zakres przed końcem kwartału.",
				"confidence":          float64(50),
			},
		},
	}
}
