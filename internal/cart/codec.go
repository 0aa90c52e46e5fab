package cart

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/cartkv-demo/internal/domain"
	"github.com/shopspring/decimal"
)

// itemRecord is the persisted shape of a domain.Item. Field names are part of the
// storage format and must not change.
type itemRecord struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	ImageURL string      `json:"image_url"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
}

// Encode serializes items into a JSON array. An empty cart encodes as "[]".
func Encode(items []domain.Item) (string, error) {
	records := make([]itemRecord, 0, len(items))

	for _, item := range items {
		records = append(records, itemRecord{
			ID:       item.ID,
			Title:    item.Title,
			ImageURL: item.ImageURL,
			Price:    json.Number(item.Price.String()),
			Quantity: item.Quantity,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(data), nil
}

// Decode parses a value produced by Encode. Values breaking cart invariants
// (non-positive quantity, duplicated id) are rejected as a whole.
func Decode(value string) ([]domain.Item, error) {
	var records []itemRecord
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	items := make([]domain.Item, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, r := range records {
		item, err := mapRecordToDomain(r)
		if err != nil {
			return nil, fmt.Errorf("mapRecordToDomain: %w", err)
		}

		if _, ok := seen[item.ID]; ok {
			return nil, fmt.Errorf("item[%s] is duplicated", item.ID)
		}
		seen[item.ID] = struct{}{}

		items = append(items, item)
	}

	return items, nil
}

func mapRecordToDomain(r itemRecord) (domain.Item, error) {
	price, err := decimal.NewFromString(r.Price.String())
	if err != nil {
		return domain.Item{}, fmt.Errorf("price[%s] of item[%s] is not valid: %w", r.Price, r.ID, err)
	}

	if r.Quantity < 1 {
		return domain.Item{}, fmt.Errorf("quantity[%d] of item[%s] is not positive", r.Quantity, r.ID)
	}

	return domain.Item{
		ID:       r.ID,
		Title:    r.Title,
		ImageURL: r.ImageURL,
		Price:    price,
		Quantity: r.Quantity,
	}, nil
}
