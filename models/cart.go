package models

import "time"

// Cart collects order lines before an order is placed.
// Line ids are millisecond timestamps, bumped when two lines share one.
type Cart struct {
	Items []OrderItem
	now   func() time.Time
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{now: time.Now}
}

// Add copies name and price of item into a new line. quantity is clamped to 1.
func (c *Cart) Add(item MenuItem, size string, quantity int, notes string) (OrderItem, error) {
	unitPrice, resolvedSize, err := item.Pricing.PriceFor(size)
	if err != nil {
		return OrderItem{}, err
	}

	line := OrderItem{
		ID:           c.nextID(),
		MenuItemID:   item.ID,
		MenuItemName: item.Name,
		Size:         resolvedSize,
		UnitPrice:    unitPrice,
		Notes:        notes,
	}
	line.SetQuantity(quantity)

	c.Items = append(c.Items, line)
	return line, nil
}

// UpdateItem sets the quantity of line id. Returns false if there is no such line.
func (c *Cart) UpdateItem(id int64, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].SetQuantity(quantity)
			return true
		}
	}
	return false
}

// RemoveItem drops line id. Returns false if there is no such line.
func (c *Cart) RemoveItem(id int64) bool {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Subtotal sums the line totals.
func (c *Cart) Subtotal() float64 {
	subtotal, _, _ := ComputeTotals(c.Items, 0)
	return subtotal
}

func (c *Cart) nextID() int64 {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	id := now().UnixMilli()
	for _, item := range c.Items {
		if item.ID >= id {
			id = item.ID + 1
		}
	}
	return id
}
