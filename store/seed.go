package store

import (
	"context"
	"fmt"
	"os"

	"github.com/Debjit29092022/resto-kot-creator/models"
	"gopkg.in/yaml.v3"
)

// Seed appends every catalog item to the menu. Items are inserted as new
// records, so seeding twice duplicates the catalog.
func Seed(ctx context.Context, s *Store, catalog []models.MenuItem) (int, error) {
	seeded := 0
	for i := range catalog {
		item := catalog[i]
		item.ID = 0
		if err := item.Validate(); err != nil {
			return seeded, fmt.Errorf("catalog item %q: %w", item.Name, err)
		}
		if err := s.Create(ctx, &item); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}

func item(category, name string, pricing models.Pricing, description string, veg bool) models.MenuItem {
	return models.MenuItem{
		Category:    category,
		Name:        name,
		Pricing:     pricing,
		Description: description,
		IsVeg:       veg,
	}
}

// DefaultCatalog returns the built-in menu.
func DefaultCatalog() []models.MenuItem {
	wings := models.SizedPrices(
		models.SizePrice{Size: "4 PCS", Price: 125},
		models.SizePrice{Size: "8 PCS", Price: 175},
		models.SizePrice{Size: "12 PCS", Price: 425},
	)
	baos := models.SizedPrices(
		models.SizePrice{Size: "1 PC", Price: 75},
		models.SizePrice{Size: "2 PCS", Price: 135},
		models.SizePrice{Size: "3 PCS", Price: 195},
	)
	winger := models.SinglePrice(135)
	const wingerDesc = "ADD ON BURGER BREAD WITH BONELESS WINGS"

	return []models.MenuItem{
		item("TRADITIONAL WINGS", "AAM KASHMUNDI WINGS", wings, "", false),
		item("TRADITIONAL WINGS", "DARJEELING DALLE WINGS", wings, "", false),
		item("TRADITIONAL WINGS", "STICKY SOY GINGER WINGS", wings, "", false),
		item("TRADITIONAL WINGS", "CLASSIC CRACKLING CHICKEN WINGS", wings, "", false),

		item("BONELESS WINGS", "AAM KASHMUNDI BONELESS WINGS", wings, "", false),
		item("BONELESS WINGS", "BONELESS WINGS IN DALLE KHURSANI SAUCE", wings, "", false),
		item("BONELESS WINGS", "STICKY SOY GINGER BONELESS WINGS", wings, "", false),
		item("BONELESS WINGS", "BBQ BONELESS WINGS", wings, "", false),

		item("WINGERS", "AAM KASHMUNDI WINGER", winger, wingerDesc, false),
		item("WINGERS", "DALLE KHURSANI SAUCE WINGER", winger, wingerDesc, false),
		item("WINGERS", "STICKY SOY GINGER WINGER", winger, wingerDesc, false),
		item("WINGERS", "BBQ BONELESS WINGER", winger, wingerDesc, false),
		item("WINGERS", "FALAFEL WITH HOT SAUCE HUMMUS BURGER", winger, wingerDesc, true),

		item("BAO WOW", "SESAME CHICKEN BAO", baos, "", false),
		item("BAO WOW", "CHICKEN TIKKA BAO", baos, "", false),
		item("BAO WOW", "WILD MUSHROOM BAO", baos, "", true),
		item("BAO WOW", "PANEER BHURJI BAO", baos, "", true),

		item("ADD ONS", "REGULAR FRIES", models.SinglePrice(65), "", true),
		item("ADD ONS", "PERI PERI FRIES", models.SinglePrice(75), "", true),
		item("ADD ONS", "ZINGER FRIES", models.SinglePrice(65), "", true),

		item("SIGNATURE BEVERAGES", "CUCUMBER FIZZ", models.SinglePrice(75), "", true),
		item("SIGNATURE BEVERAGES", "WATERMELON COOLER", models.SinglePrice(75), "", true),

		item("OTHER BEVERAGES", "BOTTLED WATER (500 ML)", models.SinglePrice(0), "MRP", true),
		item("OTHER BEVERAGES", "COKE/SPRITE/SODA BY THE GLASS", models.SinglePrice(30), "250 ML", true),
	}
}

type catalogFile struct {
	Items []catalogEntry `yaml:"items"`
}

type catalogEntry struct {
	Category    string             `yaml:"category"`
	Name        string             `yaml:"name"`
	Price       *float64           `yaml:"price"`
	Prices      []models.SizePrice `yaml:"prices"`
	Description string             `yaml:"description"`
	IsVeg       bool               `yaml:"is_veg"`
}

// LoadCatalogFile reads a YAML menu catalog:
//
//	items:
//	  - category: BAO WOW
//	    name: SESAME CHICKEN BAO
//	    prices:
//	      - {size: 1 PC, price: 75}
//	  - category: ADD ONS
//	    name: REGULAR FRIES
//	    price: 65
//	    is_veg: true
func LoadCatalogFile(path string) ([]models.MenuItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates YAML catalog content.
func ParseCatalog(data []byte) ([]models.MenuItem, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	items := make([]models.MenuItem, 0, len(file.Items))
	for i, entry := range file.Items {
		var pricing models.Pricing
		switch {
		case entry.Price != nil && len(entry.Prices) > 0:
			return nil, fmt.Errorf("catalog entry %d (%s): %w", i, entry.Name, models.ErrInvalidPricing)
		case entry.Price != nil:
			pricing = models.SinglePrice(*entry.Price)
		default:
			pricing = models.SizedPrices(entry.Prices...)
		}

		mi := item(entry.Category, entry.Name, pricing, entry.Description, entry.IsVeg)
		if err := mi.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d (%s): %w", i, entry.Name, err)
		}
		items = append(items, mi)
	}
	return items, nil
}
