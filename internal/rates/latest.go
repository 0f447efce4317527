package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"regionprice/internal/pricing"
)

// ErrUnavailable wraps every failure to obtain a usable rate table. Without
// rates no comparison can be produced, so callers treat it as fatal.
var ErrUnavailable = errors.New("exchange rates unavailable")

type latestResponse struct {
	Result    string                     `json:"result"`
	ErrorType string                     `json:"error-type"`
	BaseCode  string                     `json:"base_code"`
	Rates     map[string]json.RawMessage `json:"rates"`
}

// Latest returns units of each currency per one unit of base. Entries that
// are not numbers are skipped.
func (c *Client) Latest(ctx context.Context, base string) (pricing.RateTable, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	url := fmt.Sprintf("%s/v6/latest/%s", strings.TrimRight(c.baseURL, "/"), base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrUnavailable, err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: performing request: %w", ErrUnavailable, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: rate limited", ErrUnavailable)
	default:
		return nil, fmt.Errorf("%w: unexpected status code: %d", ErrUnavailable, res.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrUnavailable, err)
	}
	if body.Result == "error" {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, body.ErrorType)
	}

	table := make(pricing.RateTable, len(body.Rates))
	for code, raw := range body.Rates {
		var rate float64
		if err := json.Unmarshal(raw, &rate); err != nil {
			continue
		}
		table[strings.ToUpper(code)] = rate
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: missing exchange rates in response for %s", ErrUnavailable, base)
	}
	return table, nil
}
