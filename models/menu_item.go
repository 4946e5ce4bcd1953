package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPricing is returned when a menu item has neither or both price forms.
	ErrInvalidPricing = errors.New("menu item must have either a single price or a list of sized prices")
	// ErrUnknownSize is returned when a size label is not offered by a menu item.
	ErrUnknownSize = errors.New("size not offered for this menu item")
)

// SizePrice is one size option of a multi-size menu item
type SizePrice struct {
	Size  string  `json:"size" yaml:"size"`
	Price float64 `json:"price" yaml:"price"`
}

// Pricing holds either a single price or an ordered list of sized prices.
// The zero value has neither and fails Validate.
type Pricing struct {
	single *float64
	sizes  []SizePrice
}

// SinglePrice builds the pricing of a one-size item.
func SinglePrice(price float64) Pricing {
	return Pricing{single: &price}
}

// SizedPrices builds the pricing of a multi-size item. Order is kept.
func SizedPrices(sizes ...SizePrice) Pricing {
	cp := make([]SizePrice, len(sizes))
	copy(cp, sizes)
	return Pricing{sizes: cp}
}

// IsSized reports whether the item is sold in several sizes.
func (p Pricing) IsSized() bool {
	return p.single == nil && len(p.sizes) > 0
}

// Single returns the single price, if that is the form in use.
func (p Pricing) Single() (float64, bool) {
	if p.single == nil {
		return 0, false
	}
	return *p.single, true
}

// Sizes returns a copy of the sized prices.
func (p Pricing) Sizes() []SizePrice {
	cp := make([]SizePrice, len(p.sizes))
	copy(cp, p.sizes)
	return cp
}

// PriceFor resolves the unit price of a size. An empty size picks the single
// price, or the first size of a sized item.
func (p Pricing) PriceFor(size string) (float64, string, error) {
	if p.single != nil {
		if size != "" {
			return 0, "", ErrUnknownSize
		}
		return *p.single, "", nil
	}
	if len(p.sizes) == 0 {
		return 0, "", ErrInvalidPricing
	}
	if size == "" {
		return p.sizes[0].Price, p.sizes[0].Size, nil
	}
	for _, sp := range p.sizes {
		if sp.Size == size {
			return sp.Price, sp.Size, nil
		}
	}
	return 0, "", ErrUnknownSize
}

// Validate checks that exactly one price form is populated and prices are sane.
func (p Pricing) Validate() error {
	if (p.single == nil) == (len(p.sizes) == 0) {
		return ErrInvalidPricing
	}
	if p.single != nil && *p.single < 0 {
		return fmt.Errorf("price cannot be negative: %v", *p.single)
	}
	seen := make(map[string]bool, len(p.sizes))
	for _, sp := range p.sizes {
		label := strings.TrimSpace(sp.Size)
		if label == "" {
			return errors.New("size label cannot be empty")
		}
		if seen[label] {
			return fmt.Errorf("duplicate size label %q", label)
		}
		seen[label] = true
		if sp.Price < 0 {
			return fmt.Errorf("price for size %q cannot be negative", label)
		}
	}
	return nil
}

type pricingJSON struct {
	Price  *float64    `json:"price,omitempty"`
	Prices []SizePrice `json:"prices,omitempty"`
}

// MarshalJSON writes {"price": n} or {"prices": [...]}.
func (p Pricing) MarshalJSON() ([]byte, error) {
	return json.Marshal(pricingJSON{Price: p.single, Prices: p.sizes})
}

// UnmarshalJSON rejects payloads carrying both forms.
func (p *Pricing) UnmarshalJSON(data []byte) error {
	var raw pricingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Price != nil && len(raw.Prices) > 0 {
		return ErrInvalidPricing
	}
	*p = Pricing{single: raw.Price, sizes: raw.Prices}
	return nil
}

// Value stores the pricing as JSON text.
func (p Pricing) Value() (driver.Value, error) {
	b, err := p.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads the JSON text written by Value.
func (p *Pricing) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = Pricing{}
		return nil
	case string:
		return p.UnmarshalJSON([]byte(v))
	case []byte:
		return p.UnmarshalJSON(v)
	default:
		return fmt.Errorf("unsupported pricing column type %T", value)
	}
}

// MenuItem represents a sellable catalog entry
type MenuItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Category    string  `gorm:"not null;index" json:"category"`
	Name        string  `gorm:"not null;index" json:"name"`
	Pricing     Pricing `gorm:"type:text;not null" json:"pricing"`
	Description string  `json:"description,omitempty"`
	IsVeg       bool    `json:"is_veg"`
}

// TableName specifies the table name for the MenuItem model
func (MenuItem) TableName() string {
	return CollectionMenuItems
}

// RecordKey returns the store key of the item
func (m MenuItem) RecordKey() any {
	return m.ID
}

// Validate checks the fields every menu item must carry.
func (m MenuItem) Validate() error {
	if strings.TrimSpace(m.Category) == "" {
		return errors.New("category is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("name is required")
	}
	return m.Pricing.Validate()
}
