package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Debjit29092022/resto-kot-creator/metrics"
	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/services"
	"github.com/Debjit29092022/resto-kot-creator/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

// testEnv wires every controller over an in-memory store holding the default menu
type testEnv struct {
	store   *store.Store
	metrics *metrics.Metrics
	images  *services.MockImageService
	orders  *services.OrderService
	router  *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.Open(context.Background(), ":memory:", store.Options{})
	require.NoError(t, err, "Failed to open in-memory store")
	t.Cleanup(func() { _ = s.Close() })

	mtr := metrics.New()
	images := services.NewMockImageService()
	settings := services.NewSettingsService(s, nil)
	profile := services.NewProfileService(s, images, nil)
	menu := services.NewMenuService(s, nil)
	orders := services.NewOrderService(s, nil, settings, profile, mtr, nil)
	kitchen := services.NewKitchenService(s, orders, mtr)
	analytics := services.NewAnalyticsService(s, time.UTC, nil)

	menuController := NewMenuController(menu)
	orderController := NewOrderController(orders)
	kitchenController := NewKitchenController(kitchen, 20*time.Millisecond, nil)
	dashboardController := NewDashboardController(analytics, mtr, nil)
	profileController := NewProfileController(profile)
	settingsController := NewSettingsController(settings)

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.GET("/menu", menuController.ListMenuItems)
		v1.GET("/menu/categories", menuController.ListCategories)
		v1.GET("/menu/:id", menuController.GetMenuItem)
		v1.POST("/menu", menuController.CreateMenuItem)
		v1.PUT("/menu/:id", menuController.UpdateMenuItem)
		v1.DELETE("/menu/:id", menuController.DeleteMenuItem)

		v1.GET("/orders", orderController.ListOrders)
		v1.POST("/orders", orderController.CreateOrder)
		v1.GET("/orders/:id", orderController.GetOrder)
		v1.DELETE("/orders/:id", orderController.DeleteOrder)
		v1.PATCH("/orders/:id/status", orderController.UpdateOrderStatus)
		v1.GET("/orders/:id/kot", orderController.GetKOT)
		v1.POST("/orders/:id/kot/print", orderController.PrintKOT)

		v1.GET("/kitchen/orders", kitchenController.ListActiveOrders)
		v1.POST("/kitchen/orders/:id/complete", kitchenController.CompleteOrder)
		v1.GET("/kitchen/stream", kitchenController.Stream)

		v1.GET("/dashboard/analytics", dashboardController.GetAnalytics)

		v1.GET("/profile", profileController.GetProfile)
		v1.PUT("/profile", profileController.UpdateProfile)
		v1.POST("/profile/logo", profileController.UploadLogo)
		v1.DELETE("/profile/logo", profileController.DeleteLogo)

		v1.GET("/settings", settingsController.GetSettings)
		v1.PUT("/settings", settingsController.UpdateSettings)
	}

	return &testEnv{store: s, metrics: mtr, images: images, orders: orders, router: router}
}

// do sends a JSON request and decodes the JSON response
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "Response should be valid JSON: %s", w.Body.String())
	return w, response
}

// upload posts a multipart form with one file in field
func (e *testEnv) upload(t *testing.T, path, field, filename string, content []byte) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func (e *testEnv) menuItemID(t *testing.T, name string) uint {
	t.Helper()
	items, err := store.GetByIndex[models.MenuItem](context.Background(), e.store, "name", name)
	require.NoError(t, err)
	require.Len(t, items, 1, "Expected exactly one menu item named %s", name)
	return items[0].ID
}

// placeOrder places a one-line order through the service
func (e *testEnv) placeOrder(t *testing.T, table, itemName, size string, quantity int) *models.Order {
	t.Helper()
	order, err := e.orders.PlaceOrder(context.Background(), services.PlaceOrderRequest{
		TableNumber: table,
		Items:       []services.OrderLine{{MenuItemID: e.menuItemID(t, itemName), Size: size, Quantity: quantity}},
	})
	require.NoError(t, err)
	return order
}

func errorCode(response map[string]interface{}) string {
	errBody, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errBody["code"].(string)
	return code
}
