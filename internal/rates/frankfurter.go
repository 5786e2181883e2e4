// Package rates fetches currency conversion rates from a Frankfurter compatible API.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
)

const maxBodyBytes = 1 << 20

// Client reads /latest and /currencies and turns them into currency records
// whose ToBase is expressed in the configured base currency.
type Client struct {
	baseURL string
	base    string
	http    *http.Client
	now     func() time.Time
}

type latestResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// NewClient returns a client for the API rooted at baseURL. A nil httpClient uses
// http.DefaultClient; deadlines come from the caller's context.
func NewClient(baseURL, base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		base:    strings.ToUpper(base),
		http:    httpClient,
		now:     time.Now,
	}
}

// Fetch loads the rate table and the currency names concurrently.
func (c *Client) Fetch(ctx context.Context) ([]core.Currency, error) {
	var (
		latest latestResponse
		names  map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(gctx, "/latest", url.Values{"base": {c.base}}, &latest)
	})
	g.Go(func() error {
		return c.getJSON(gctx, "/currencies", nil, &names)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	currencies, err := c.build(latest, names)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Fetched exchange rates",
		applog.FieldComponent, applog.ComponentRates,
		applog.FieldCurrency, c.base,
		applog.FieldCount, len(currencies),
		"date", latest.Date)
	return currencies, nil
}

func (c *Client) build(latest latestResponse, names map[string]string) ([]core.Currency, error) {
	if latest.Base != "" && !strings.EqualFold(latest.Base, c.base) {
		return nil, fmt.Errorf("unexpected base currency %q, asked for %q", latest.Base, c.base)
	}
	amount := latest.Amount
	if amount == 0 {
		amount = 1
	}

	now := c.now()
	out := make([]core.Currency, 0, len(latest.Rates)+1)
	out = append(out, c.currency(c.base, 1, names, now))
	for code, rate := range latest.Rates {
		if rate <= 0 {
			return nil, fmt.Errorf("invalid rate %v for %s", rate, code)
		}
		// rate is how many units of code buy amount base units
		out = append(out, c.currency(code, amount/rate, names, now))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (c *Client) currency(code string, toBase float64, names map[string]string, now time.Time) core.Currency {
	name := names[code]
	if name == "" {
		name = code
	}
	return core.Currency{
		Code:     code,
		ToBase:   toBase,
		ListItem: core.NewListItem(name, code, "", now),
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("get %s: unexpected status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
