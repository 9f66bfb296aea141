package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
)

// BarcodeLookup is implemented by the clients in internal/provider.
type BarcodeLookup interface {
	LookupBarcode(ctx context.Context, barcode string) (model.Product, error)
}

// NamedLookup labels a provider in fallback error messages.
type NamedLookup struct {
	Name   string
	Lookup BarcodeLookup
}

// FallbackLookup tries each provider in order and returns the first product
// found.
type FallbackLookup []NamedLookup

func (f FallbackLookup) LookupBarcode(ctx context.Context, barcode string) (model.Product, error) {
	if len(f) == 0 {
		return model.Product{}, fmt.Errorf("no lookup providers configured")
	}
	errs := make([]string, 0, len(f))
	for _, c := range f {
		p, err := c.Lookup.LookupBarcode(ctx, barcode)
		if err == nil {
			return p, nil
		}
		if ctx.Err() != nil {
			return model.Product{}, ctx.Err()
		}
		errs = append(errs, fmt.Sprintf("%s: %v", c.Name, err))
	}
	return model.Product{}, fmt.Errorf("lookup failed for %q across providers [%s]", barcode, strings.Join(errs, "; "))
}

// ImportFoodFromBarcode adds the product's per-100g values to the food
// catalog. A food with the same name is kept unchanged and returned.
func ImportFoodFromBarcode(ctx context.Context, db *sql.DB, lookup BarcodeLookup, barcode string) (model.Food, error) {
	p, err := lookup.LookupBarcode(ctx, barcode)
	if err != nil {
		return model.Food{}, fmt.Errorf("lookup barcode %s: %w", barcode, err)
	}
	id, err := AddFood(ctx, db, AddFoodInput{
		Name:     p.DisplayName(),
		Calories: p.Per100g.Calories,
		Protein:  p.Per100g.Protein,
		Carbs:    p.Per100g.Carbs,
		Fat:      p.Per100g.Fat,
	})
	if err != nil {
		return model.Food{}, err
	}
	return GetFood(ctx, db, id)
}
