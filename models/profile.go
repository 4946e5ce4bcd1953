package models

import (
	"errors"
	"fmt"
)

// Default profile and settings values used when the records do not exist yet.
const (
	DefaultRestaurantName = "Legendary Baos & Wings"
	DefaultTagline        = "THE SNACKS FOR SNACCS"
	DefaultTaxRate        = 5.0
	DefaultReceiptFooter  = "Thank you for dining with us!"
)

// ErrInvalidTaxRate is returned for a tax rate outside 0..100.
var ErrInvalidTaxRate = errors.New("tax rate must be between 0 and 100")

// Profile is the restaurant identity shown on KOTs and receipts
type Profile struct {
	ID             string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	RestaurantName string `gorm:"not null" json:"restaurant_name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	GST            string `json:"gst,omitempty"`
	Logo           string `gorm:"type:text" json:"logo,omitempty"` // base64 data URI
	LogoKey        string `json:"logo_key,omitempty"`              // storage key when uploaded through the image service
	LogoURL        string `gorm:"-" json:"logo_url,omitempty"`     // computed field
	Tagline        string `json:"tagline,omitempty"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return CollectionProfile
}

// RecordKey returns the fixed profile key
func (p Profile) RecordKey() any {
	return p.ID
}

// DefaultProfile returns the profile used before the owner edits it.
func DefaultProfile() Profile {
	return Profile{
		ID:             SingletonKey,
		RestaurantName: DefaultRestaurantName,
		Tagline:        DefaultTagline,
	}
}

// Settings holds the tax rate and printing preferences
type Settings struct {
	ID            string  `gorm:"primaryKey;type:varchar(32)" json:"id"`
	TaxRate       float64 `gorm:"not null" json:"tax_rate"` // percent
	PrinterName   string  `json:"printer_name,omitempty"`
	ReceiptHeader string  `json:"receipt_header,omitempty"`
	ReceiptFooter string  `json:"receipt_footer,omitempty"`
}

// TableName specifies the table name for the Settings model
func (Settings) TableName() string {
	return CollectionSettings
}

// RecordKey returns the fixed settings key
func (s Settings) RecordKey() any {
	return s.ID
}

// DefaultSettings returns the settings used before the owner edits them.
func DefaultSettings() Settings {
	return Settings{
		ID:            SingletonKey,
		TaxRate:       DefaultTaxRate,
		ReceiptFooter: DefaultReceiptFooter,
	}
}

// Validate checks the tax rate range.
func (s Settings) Validate() error {
	if s.TaxRate < 0 || s.TaxRate > 100 {
		return fmt.Errorf("%w: got %v", ErrInvalidTaxRate, s.TaxRate)
	}
	return nil
}
