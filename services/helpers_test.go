package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/store"
	"github.com/stretchr/testify/require"
)

var testPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

// newTestStore opens an in-memory store holding the default menu.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), ":memory:", store.Options{})
	require.NoError(t, err, "Failed to open in-memory store")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// menuItemByName looks up a seeded menu item.
func menuItemByName(t *testing.T, s *store.Store, name string) models.MenuItem {
	t.Helper()
	items, err := store.GetByIndex[models.MenuItem](context.Background(), s, "name", name)
	require.NoError(t, err)
	require.Len(t, items, 1, "Expected exactly one menu item named %s", name)
	return items[0]
}

// storeOrder writes an order with a single line directly to the store.
func storeOrder(t *testing.T, s *store.Store, status models.OrderStatus, ts time.Time, name string, quantity int, unitPrice float64) models.Order {
	t.Helper()
	items := []models.OrderItem{{
		ID:           ts.UnixMilli(),
		MenuItemName: name,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		TotalPrice:   unitPrice * float64(quantity),
	}}
	subtotal, tax, total := models.ComputeTotals(items, 0)
	order := models.Order{
		OrderNumber: models.OrderNumberFor(ts),
		TableNumber: "T1",
		Items:       items,
		Subtotal:    subtotal,
		Tax:         tax,
		Total:       total,
		Timestamp:   ts,
		Status:      status,
	}
	require.NoError(t, s.Create(context.Background(), &order))
	return order
}

// createFileHeader builds an uploaded file for tests.
func createFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="logo"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.Len(t, form.File["logo"], 1)
	return form.File["logo"][0]
}
