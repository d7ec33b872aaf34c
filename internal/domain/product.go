package domain

import "time"

// CatalogProduct is a product as listed by the upstream storefront
type CatalogProduct struct {
	Title    string           `json:"title"`
	Handle   string           `json:"handle"`
	Variants []CatalogVariant `json:"variants"`
	Images   []string         `json:"images"`
}

// CatalogVariant is a purchasable variant. The title carries the size label.
// Price and Available are nil when the upstream omitted them.
type CatalogVariant struct {
	Title     string   `json:"title"`
	Price     *float64 `json:"price,omitempty"`
	Available *bool    `json:"available,omitempty"`
}

// CatalogSnapshot is a point-in-time copy of the full catalog
type CatalogSnapshot struct {
	Products  []CatalogProduct
	FetchedAt time.Time
}

// Age returns how old the snapshot is relative to now
func (s *CatalogSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}
