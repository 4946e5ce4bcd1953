package models

// SalesData is a reserved daily rollup row. Nothing writes it yet.
type SalesData struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	Date             string  `gorm:"not null;index" json:"date"`
	Month            int     `gorm:"not null;index" json:"month"`
	Year             int     `gorm:"not null;index" json:"year"`
	TotalSales       float64 `json:"total_sales"`
	TotalOrders      int     `json:"total_orders"`
	MostSoldItem     string  `json:"most_sold_item,omitempty"`
	MostSoldQuantity int     `json:"most_sold_quantity,omitempty"`
}

// TableName specifies the table name for the SalesData model
func (SalesData) TableName() string {
	return CollectionSalesData
}

// RecordKey returns the store key of the row
func (s SalesData) RecordKey() any {
	return s.ID
}

// AnalyticsEntry is a reserved precomputed analytics row. Nothing writes it yet.
type AnalyticsEntry struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Type    string `gorm:"not null;index" json:"type"`
	Period  string `gorm:"not null;index" json:"period"`
	Payload string `gorm:"type:text" json:"payload"`
}

// TableName specifies the table name for the AnalyticsEntry model
func (AnalyticsEntry) TableName() string {
	return CollectionAnalytics
}

// RecordKey returns the store key of the row
func (a AnalyticsEntry) RecordKey() any {
	return a.ID
}
