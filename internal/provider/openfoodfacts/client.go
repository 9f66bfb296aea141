package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
)

const (
	defaultBaseURL    = "https://world.openfoodfacts.org"
	userAgent         = "pulsecare/1.0 (+https://github.com/Abdullah-Ro45/PulseCare-Vita1)"
	kilojoulesPerKcal = 4.184
)

var barcodePattern = regexp.MustCompile(`^\d{8,14}$`)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) base() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return defaultBaseURL
	}
	return base
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	return nil
}

func (c *Client) LookupBarcode(ctx context.Context, barcode string) (model.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if !barcodePattern.MatchString(barcode) {
		return model.Product{}, fmt.Errorf("invalid barcode %q: expected 8 to 14 digits", barcode)
	}
	var parsed offResponse
	if err := c.get(ctx, fmt.Sprintf("%s/api/v2/product/%s.json", c.base(), barcode), &parsed); err != nil {
		return model.Product{}, err
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return model.Product{}, fmt.Errorf("no openfoodfacts product found for barcode %q", barcode)
	}
	p := toProduct(parsed.Product)
	if p.Code == "" {
		p.Code = barcode
	}
	return p, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	u := fmt.Sprintf("%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=%d",
		c.base(),
		url.QueryEscape(strings.TrimSpace(query)),
		limit,
	)
	var parsed offSearchResponse
	if err := c.get(ctx, u, &parsed); err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			continue
		}
		out = append(out, toProduct(p))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no openfoodfacts product found for query %q", query)
	}
	return out, nil
}

func toProduct(p offProduct) model.Product {
	calories, ok := per100g(p.Nutriments, "energy-kcal")
	if !ok {
		if kj, ok := per100g(p.Nutriments, "energy"); ok {
			calories = kj / kilojoulesPerKcal
		}
	}
	protein, _ := per100g(p.Nutriments, "proteins")
	carbs, _ := per100g(p.Nutriments, "carbohydrates")
	fat, _ := per100g(p.Nutriments, "fat")
	return model.Product{
		Code:  strings.TrimSpace(p.Code),
		Name:  strings.TrimSpace(p.ProductName),
		Brand: firstBrand(p.Brands),
		Per100g: model.Nutrients{
			Calories: calories,
			Protein:  protein,
			Carbs:    carbs,
			Fat:      fat,
		},
	}
}

// per100g reads base_100g only; serving-based values are ignored.
func per100g(n map[string]any, base string) (float64, bool) {
	v, ok := parseFloatAny(n[base+"_100g"])
	if !ok || v < 0 {
		return 0, false
	}
	return v, true
}

func firstBrand(brands string) string {
	first, _, _ := strings.Cut(brands, ",")
	return strings.TrimSpace(first)
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	Code        string         `json:"code"`
	ProductName string         `json:"product_name"`
	Brands      string         `json:"brands"`
	Nutriments  map[string]any `json:"nutriments"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}
