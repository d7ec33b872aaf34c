package shopify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProducts(t *testing.T, body string) any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw["products"]
}

func TestMapProducts(t *testing.T) {
	t.Run("maps full product", func(t *testing.T) {
		raw := decodeProducts(t, `{"products": [{
			"title": " Women's Wool Runner ",
			"handle": "womens-wool-runner",
			"variants": [
				{"title": "8", "price": "110.00", "available": true},
				{"title": "9", "price": 105.5, "available": false}
			],
			"images": [{"src": "https://cdn.example.com/a.png"}, {"src": "https://cdn.example.com/b.png"}]
		}]}`)

		products := MapProducts(raw)

		require.Len(t, products, 1)
		p := products[0]
		assert.Equal(t, "Women's Wool Runner", p.Title)
		assert.Equal(t, "womens-wool-runner", p.Handle)
		require.Len(t, p.Variants, 2)
		assert.Equal(t, "8", p.Variants[0].Title)
		assert.Equal(t, 110.0, *p.Variants[0].Price)
		assert.True(t, *p.Variants[0].Available)
		assert.Equal(t, 105.5, *p.Variants[1].Price)
		assert.False(t, *p.Variants[1].Available)
		assert.Equal(t, []string{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"}, p.Images)
	})

	t.Run("missing price and availability stay nil", func(t *testing.T) {
		raw := decodeProducts(t, `{"products": [{
			"title": "Tree Dasher", "handle": "tree-dasher",
			"variants": [{"title": "10"}, {"title": "11", "price": null, "available": null}, {"title": "12", "price": "n/a"}]
		}]}`)

		products := MapProducts(raw)

		require.Len(t, products, 1)
		require.Len(t, products[0].Variants, 3)
		for _, v := range products[0].Variants {
			assert.Nil(t, v.Price, v.Title)
			assert.Nil(t, v.Available, v.Title)
		}
		assert.Empty(t, products[0].Images)
	})

	t.Run("nil and wrong shapes yield empty list", func(t *testing.T) {
		assert.Empty(t, MapProducts(nil))
		assert.NotNil(t, MapProducts(nil))
		assert.Empty(t, MapProducts("products"))
		assert.Empty(t, MapProducts(map[string]any{"title": "x"}))
	})

	t.Run("drops products without handle and duplicate handles", func(t *testing.T) {
		raw := decodeProducts(t, `{"products": [
			{"title": "First", "handle": "runner"},
			{"title": "No handle"},
			{"title": "Blank handle", "handle": "  "},
			{"title": "Second", "handle": "runner"},
			"not an object",
			{"title": "Other", "handle": "dasher"}
		]}`)

		products := MapProducts(raw)

		require.Len(t, products, 2)
		assert.Equal(t, "First", products[0].Title)
		assert.Equal(t, "dasher", products[1].Handle)
	})

	t.Run("skips empty image sources", func(t *testing.T) {
		raw := decodeProducts(t, `{"products": [{
			"title": "Lounger", "handle": "lounger",
			"images": [{"src": ""}, {"alt": "no src"}, {"src": "https://cdn.example.com/l.png"}, "https://cdn.example.com/m.png"]
		}]}`)

		products := MapProducts(raw)

		require.Len(t, products, 1)
		assert.Equal(t, []string{"https://cdn.example.com/l.png", "https://cdn.example.com/m.png"}, products[0].Images)
	})

	t.Run("numeric titles are stringified", func(t *testing.T) {
		raw := decodeProducts(t, `{"products": [{"title": "Runner", "handle": "runner", "variants": [{"title": 9, "price": 98}]}]}`)

		products := MapProducts(raw)

		require.Len(t, products, 1)
		assert.Equal(t, "9", products[0].Variants[0].Title)
		assert.Equal(t, 98.0, *products[0].Variants[0].Price)
	})
}
