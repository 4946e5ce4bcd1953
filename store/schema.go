package store

import "github.com/Debjit29092022/resto-kot-creator/models"

// collection describes one named collection of the store.
type collection struct {
	name    string
	model   Record
	autoID  bool
	indexes map[string]string // index name -> column
}

// schemaMeta records the schema version the store was provisioned with.
type schemaMeta struct {
	ID      uint `gorm:"primaryKey"`
	Version int  `gorm:"not null"`
}

func (schemaMeta) TableName() string {
	return "schema_meta"
}

var collections = []collection{
	{
		name:    models.CollectionMenuItems,
		model:   &models.MenuItem{},
		autoID:  true,
		indexes: map[string]string{"category": "category", "name": "name"},
	},
	{
		name:    models.CollectionOrders,
		model:   &models.Order{},
		autoID:  true,
		indexes: map[string]string{"timestamp": "timestamp", "status": "status"},
	},
	{
		name:  models.CollectionProfile,
		model: &models.Profile{},
	},
	{
		name:  models.CollectionSettings,
		model: &models.Settings{},
	},
	{
		name:    models.CollectionSalesData,
		model:   &models.SalesData{},
		autoID:  true,
		indexes: map[string]string{"date": "date", "month": "month", "year": "year"},
	},
	{
		name:    models.CollectionAnalytics,
		model:   &models.AnalyticsEntry{},
		autoID:  true,
		indexes: map[string]string{"type": "type", "period": "period"},
	},
}

func lookupCollection(name string) (collection, bool) {
	for _, c := range collections {
		if c.name == name {
			return c, true
		}
	}
	return collection{}, false
}

// CollectionNames lists every provisioned collection in schema order.
func CollectionNames() []string {
	names := make([]string, 0, len(collections))
	for _, c := range collections {
		names = append(names, c.name)
	}
	return names
}
