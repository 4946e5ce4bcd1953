package models

// SchemaVersion is bumped whenever a collection or index is added.
const SchemaVersion = 1

// Collection names. Each one maps to a table in the record store.
const (
	CollectionMenuItems = "menu_items"
	CollectionOrders    = "orders"
	CollectionProfile   = "profile"
	CollectionSettings  = "settings"
	CollectionSalesData = "sales_data"
	CollectionAnalytics = "analytics"
)

// SingletonKey is the fixed key of the profile and settings records.
const SingletonKey = "main"
