package shopify

import (
	"log"
	"strings"

	"github.com/spf13/cast"

	"github.com/shoefinder/backend/internal/domain"
)

// MapProducts converts the decoded "products" field into catalog products.
// Anything that is not the expected shape is treated as empty; products without
// a handle, or repeating an earlier handle, are dropped.
func MapProducts(raw any) []domain.CatalogProduct {
	items, ok := raw.([]any)
	if !ok {
		return []domain.CatalogProduct{}
	}

	products := make([]domain.CatalogProduct, 0, len(items))
	seen := make(map[string]bool, len(items))
	dropped := 0

	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			dropped++
			continue
		}

		product := mapProduct(fields)
		if product.Handle == "" || seen[product.Handle] {
			dropped++
			continue
		}

		seen[product.Handle] = true
		products = append(products, product)
	}

	if dropped > 0 {
		log.Printf("[CATALOG] Dropped %d malformed or duplicate products", dropped)
	}

	return products
}

func mapProduct(fields map[string]any) domain.CatalogProduct {
	return domain.CatalogProduct{
		Title:    strings.TrimSpace(toString(fields["title"])),
		Handle:   strings.TrimSpace(toString(fields["handle"])),
		Variants: mapVariants(fields["variants"]),
		Images:   mapImages(fields["images"]),
	}
}

func mapVariants(raw any) []domain.CatalogVariant {
	items, _ := raw.([]any)
	variants := make([]domain.CatalogVariant, 0, len(items))

	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}

		variant := domain.CatalogVariant{
			Title: toString(fields["title"]),
		}

		if raw, ok := fields["price"]; ok && raw != nil && raw != "" {
			if price, err := cast.ToFloat64E(raw); err == nil {
				variant.Price = &price
			}
		}
		if raw, ok := fields["available"]; ok && raw != nil {
			if available, err := cast.ToBoolE(raw); err == nil {
				variant.Available = &available
			}
		}

		variants = append(variants, variant)
	}

	return variants
}

func mapImages(raw any) []string {
	items, _ := raw.([]any)
	images := make([]string, 0, len(items))

	for _, item := range items {
		var src string
		switch v := item.(type) {
		case map[string]any:
			src = toString(v["src"])
		case string:
			src = v
		}
		if src = strings.TrimSpace(src); src != "" {
			images = append(images, src)
		}
	}

	return images
}

// toString stringifies scalars and returns "" for objects, arrays and null
func toString(v any) string {
	switch v.(type) {
	case map[string]any, []any, nil:
		return ""
	}
	return cast.ToString(v)
}
