package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// itemDoc is the stored shape of a cart or order line.
type itemDoc struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

func encodeItems(items []domain.CartItem) (string, error) {
	docs := make([]itemDoc, 0, len(items))
	for _, it := range items {
		docs = append(docs, itemDoc{ProductID: it.ProductID, Quantity: it.Quantity, Size: it.Size, Color: it.Color})
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode items: %w", err)
	}
	return string(b), nil
}

func decodeItems(raw string) ([]domain.CartItem, error) {
	var docs []itemDoc
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		return nil, fmt.Errorf("sqlite: decode items: %w", err)
	}
	items := make([]domain.CartItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, domain.CartItem{ProductID: d.ProductID, Quantity: d.Quantity, Size: d.Size, Color: d.Color})
	}
	return items, nil
}

func encodeStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode list: %w", err)
	}
	return string(b), nil
}

func decodeStrings(raw string) ([]string, error) {
	out := []string{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("sqlite: decode list: %w", err)
	}
	return out, nil
}
