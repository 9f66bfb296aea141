package usda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
)

const defaultBaseURL = "https://api.nal.usda.gov"

// Client searches FoodData Central's branded foods. Nutrient values in
// branded search results are reported per 100 g.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) LookupBarcode(ctx context.Context, barcode string) (model.Product, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return model.Product{}, fmt.Errorf("missing USDA API key")
	}
	barcode = strings.TrimSpace(barcode)
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	payload, err := json.Marshal(map[string]any{
		"query":    barcode,
		"dataType": []string{"Branded"},
		"pageSize": 20,
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("marshal USDA search payload: %w", err)
	}

	u := fmt.Sprintf("%s/fdc/v1/foods/search?api_key=%s", baseURL, url.QueryEscape(c.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return model.Product{}, fmt.Errorf("create USDA request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return model.Product{}, fmt.Errorf("execute USDA request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Product{}, fmt.Errorf("read USDA response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Product{}, fmt.Errorf("USDA request failed with status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.Product{}, fmt.Errorf("decode USDA response: %w", err)
	}
	food, ok := selectBarcodeMatch(parsed.Foods, barcode)
	if !ok {
		return model.Product{}, fmt.Errorf("no USDA branded food found for barcode %q", barcode)
	}
	return toProduct(food, barcode), nil
}

// selectBarcodeMatch prefers an exact GTIN match and otherwise takes the
// top search hit.
func selectBarcodeMatch(foods []usdaFood, barcode string) (usdaFood, bool) {
	for _, f := range foods {
		if strings.TrimSpace(f.GTINUPC) == barcode {
			return f, true
		}
	}
	if len(foods) > 0 {
		return foods[0], true
	}
	return usdaFood{}, false
}

func toProduct(f usdaFood, barcode string) model.Product {
	out := model.Product{
		Code:  barcode,
		Name:  strings.TrimSpace(f.Description),
		Brand: strings.TrimSpace(f.BrandOwner),
	}
	if code := strings.TrimSpace(f.GTINUPC); code != "" {
		out.Code = code
	}
	for _, n := range f.FoodNutrients {
		if n.Value < 0 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(n.NutrientName)) {
		case "energy":
			// Branded foods may list energy twice; kcal wins over kJ.
			if strings.EqualFold(n.UnitName, "kj") {
				if out.Per100g.Calories == 0 {
					out.Per100g.Calories = n.Value / 4.184
				}
				continue
			}
			out.Per100g.Calories = n.Value
		case "protein":
			out.Per100g.Protein = n.Value
		case "carbohydrate, by difference":
			out.Per100g.Carbs = n.Value
		case "total lipid (fat)":
			out.Per100g.Fat = n.Value
		}
	}
	return out
}

type searchResponse struct {
	Foods []usdaFood `json:"foods"`
}

type usdaFood struct {
	FDCID         int64          `json:"fdcId"`
	Description   string         `json:"description"`
	BrandOwner    string         `json:"brandOwner"`
	GTINUPC       string         `json:"gtinUpc"`
	FoodNutrients []usdaNutrient `json:"foodNutrients"`
}

type usdaNutrient struct {
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}
