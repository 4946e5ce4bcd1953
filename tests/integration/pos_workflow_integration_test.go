package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Debjit29092022/resto-kot-creator/controllers"
	"github.com/Debjit29092022/resto-kot-creator/metrics"
	"github.com/Debjit29092022/resto-kot-creator/middleware"
	"github.com/Debjit29092022/resto-kot-creator/mirror"
	"github.com/Debjit29092022/resto-kot-creator/services"
	"github.com/Debjit29092022/resto-kot-creator/store"
	"github.com/Debjit29092022/resto-kot-creator/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// POSWorkflowTestSuite drives the API the way the counter, kitchen and
// owner screens do, over a file-backed store and a SQLite mirror.
type POSWorkflowTestSuite struct {
	suite.Suite
	store     *store.Store
	mirror    *mirror.Mirror
	metrics   *metrics.Metrics
	router    *gin.Engine
	uploadDir string
	scopes    []string
}

func (suite *POSWorkflowTestSuite) SetupSuite() {
	if testing.Verbose() {
		testutil.PrintEnvironmentInfo()
	}
}

func (suite *POSWorkflowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(suite.T())
	testutil.RequireTestEnvironment(suite.T())

	suite.store = testutil.NewStore(suite.T())

	m, err := mirror.Open(suite.T().Context(), filepath.Join(suite.T().TempDir(), "mirror.db"), nil)
	suite.Require().NoError(err)
	suite.mirror = m
	suite.T().Cleanup(func() { _ = m.Close() })

	suite.metrics = metrics.New()
	suite.uploadDir = suite.T().TempDir()
	suite.scopes = []string{middleware.AdminScope}
	suite.router = suite.createRouter()
}

func (suite *POSWorkflowTestSuite) createRouter() *gin.Engine {
	images := services.NewLocalImageService(suite.uploadDir)
	settings := services.NewSettingsService(suite.store, nil)
	profile := services.NewProfileService(suite.store, images, nil)
	orders := services.NewOrderService(suite.store, suite.mirror, settings, profile, suite.metrics, nil)
	kitchen := services.NewKitchenService(suite.store, orders, suite.metrics)
	analytics := services.NewAnalyticsService(suite.store, time.UTC, nil)

	menuController := controllers.NewMenuController(services.NewMenuService(suite.store, nil))
	orderController := controllers.NewOrderController(orders)
	kitchenController := controllers.NewKitchenController(kitchen, time.Second, nil)
	dashboardController := controllers.NewDashboardController(analytics, suite.metrics, nil)
	profileController := controllers.NewProfileController(profile)
	settingsController := controllers.NewSettingsController(settings)
	uploadController := controllers.NewUploadController(suite.uploadDir)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), suite.metrics.Middleware())

	v1 := router.Group("/api/v1")
	v1.GET("/uploads/:filename", uploadController.GetUploadedImage)

	api := v1.Group("", suite.mockAuth)
	admin := middleware.RequireScope(middleware.AdminScope)
	{
		api.GET("/menu", menuController.ListMenuItems)
		api.GET("/menu/:id", menuController.GetMenuItem)
		api.PUT("/menu/:id", admin, menuController.UpdateMenuItem)

		api.GET("/orders", orderController.ListOrders)
		api.POST("/orders", orderController.CreateOrder)
		api.GET("/orders/:id", orderController.GetOrder)
		api.DELETE("/orders/:id", admin, orderController.DeleteOrder)
		api.PATCH("/orders/:id/status", orderController.UpdateOrderStatus)
		api.POST("/orders/:id/kot/print", orderController.PrintKOT)

		api.GET("/kitchen/orders", kitchenController.ListActiveOrders)
		api.POST("/kitchen/orders/:id/complete", kitchenController.CompleteOrder)

		api.GET("/dashboard/analytics", dashboardController.GetAnalytics)

		api.GET("/profile", profileController.GetProfile)
		api.PUT("/profile", admin, profileController.UpdateProfile)
		api.POST("/profile/logo", admin, profileController.UploadLogo)

		api.GET("/settings", settingsController.GetSettings)
		api.PUT("/settings", admin, settingsController.UpdateSettings)
	}
	return router
}

// mockAuth authenticates every request with the scopes currently set on the suite
func (suite *POSWorkflowTestSuite) mockAuth(c *gin.Context) {
	testutil.MockAuth("auth0|staff", suite.scopes...)(c)
}

func (suite *POSWorkflowTestSuite) request(method, path string, body interface{}) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return w.Code, response
}

func (suite *POSWorkflowTestSuite) menuItemID(name string) float64 {
	code, response := suite.request(http.MethodGet, "/api/v1/menu", nil)
	suite.Require().Equal(http.StatusOK, code)
	for _, raw := range response["data"].([]interface{}) {
		item := raw.(map[string]interface{})
		if item["name"] == name {
			return item["id"].(float64)
		}
	}
	suite.FailNow("menu item not found", name)
	return 0
}

func (suite *POSWorkflowTestSuite) placeOrder(table string, lines ...map[string]interface{}) map[string]interface{} {
	code, response := suite.request(http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"table_number": table,
		"items":        lines,
	})
	suite.Require().Equal(http.StatusCreated, code, response)
	return response["data"].(map[string]interface{})
}

func ids(response map[string]interface{}) []float64 {
	out := []float64{}
	for _, raw := range response["data"].([]interface{}) {
		out = append(out, raw.(map[string]interface{})["id"].(float64))
	}
	return out
}

// TestOrderLifecycle follows an order from the counter to the kitchen and into the dashboard
func (suite *POSWorkflowTestSuite) TestOrderLifecycle() {
	baoID := suite.menuItemID("CHICKEN TIKKA BAO")
	fizzID := suite.menuItemID("CUCUMBER FIZZ")

	// Step 1: the counter places an order
	order := suite.placeOrder("T8",
		map[string]interface{}{"menu_item_id": baoID, "size": "3 PCS", "quantity": 1},
		map[string]interface{}{"menu_item_id": fizzID, "quantity": 2, "notes": "no ice"},
	)
	orderID := order["id"].(float64)
	suite.Equal("pending", order["status"])
	suite.Equal(float64(345), order["subtotal"])
	suite.InDelta(362.25, order["total"].(float64), 1e-9)

	// Step 2: the kitchen sees it
	code, response := suite.request(http.MethodGet, "/api/v1/kitchen/orders", nil)
	suite.Equal(http.StatusOK, code)
	suite.Equal([]float64{orderID}, ids(response))

	// Step 3: printing the KOT starts preparation
	code, response = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/kot/print", int(orderID)), nil)
	suite.Equal(http.StatusOK, code)
	kot := response["data"].(map[string]interface{})
	suite.Equal("processing", kot["order"].(map[string]interface{})["status"])

	// Step 4: the kitchen completes it and it leaves the display
	code, _ = suite.request(http.MethodPost, fmt.Sprintf("/api/v1/kitchen/orders/%d/complete", int(orderID)), nil)
	suite.Equal(http.StatusOK, code)
	_, response = suite.request(http.MethodGet, "/api/v1/kitchen/orders", nil)
	suite.Empty(response["data"])

	// Step 5: the dashboard counts it
	code, response = suite.request(http.MethodGet, "/api/v1/dashboard/analytics", nil)
	suite.Equal(http.StatusOK, code)
	analytics := response["data"].(map[string]interface{})
	suite.Equal(float64(1), analytics["total_orders"])
	suite.InDelta(362.25, analytics["total_sales"].(float64), 1e-9)
	top := analytics["top_selling_items"].([]interface{})
	suite.Equal("CUCUMBER FIZZ", top[0].(map[string]interface{})["name"])

	// Step 6: the mirror holds the completed order with its lines
	code, response = suite.request(http.MethodGet, "/api/v1/orders?source=mirror", nil)
	suite.Equal(http.StatusOK, code)
	suite.Require().Equal(float64(1), response["count"])
	mirrored := response["data"].([]interface{})[0].(map[string]interface{})
	suite.Equal("completed", mirrored["status"])
	suite.Len(mirrored["items"], 2)
}

// TestMenuEditsDoNotRewriteOrders checks that orders keep the name and price they were placed with
func (suite *POSWorkflowTestSuite) TestMenuEditsDoNotRewriteOrders() {
	friesID := suite.menuItemID("REGULAR FRIES")
	order := suite.placeOrder("T1", map[string]interface{}{"menu_item_id": friesID, "quantity": 1})

	code, _ := suite.request(http.MethodPut, fmt.Sprintf("/api/v1/menu/%d", int(friesID)), map[string]interface{}{
		"category": "ADD ONS",
		"name":     "CLASSIC FRIES",
		"pricing":  map[string]interface{}{"price": 80},
		"is_veg":   true,
	})
	suite.Require().Equal(http.StatusOK, code)

	_, response := suite.request(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", int(order["id"].(float64))), nil)
	line := response["data"].(map[string]interface{})["items"].([]interface{})[0].(map[string]interface{})
	suite.Equal("REGULAR FRIES", line["menu_item_name"])
	suite.Equal(float64(65), line["unit_price"])
}

// TestCancelledOrdersLeaveTheKitchen checks cancellation and the terminal states
func (suite *POSWorkflowTestSuite) TestCancelledOrdersLeaveTheKitchen() {
	friesID := suite.menuItemID("REGULAR FRIES")
	order := suite.placeOrder("T2", map[string]interface{}{"menu_item_id": friesID, "quantity": 1})
	path := fmt.Sprintf("/api/v1/orders/%d/status", int(order["id"].(float64)))

	code, _ := suite.request(http.MethodPatch, path, map[string]string{"status": "cancelled"})
	suite.Equal(http.StatusOK, code)

	code, response := suite.request(http.MethodPatch, path, map[string]string{"status": "processing"})
	suite.Equal(http.StatusConflict, code)
	suite.Equal("INVALID_STATUS_TRANSITION", response["error"].(map[string]interface{})["code"])

	_, response = suite.request(http.MethodGet, "/api/v1/kitchen/orders", nil)
	suite.Empty(response["data"])

	_, response = suite.request(http.MethodGet, "/api/v1/orders?status=cancelled", nil)
	suite.Equal(float64(1), response["count"])
}

// TestAdminScopeRequired checks that staff without the admin scope cannot change the setup
func (suite *POSWorkflowTestSuite) TestAdminScopeRequired() {
	suite.scopes = []string{"read:orders"}

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"settings update", http.MethodPut, "/api/v1/settings", map[string]interface{}{"tax_rate": 0}, http.StatusForbidden},
		{"profile update", http.MethodPut, "/api/v1/profile", map[string]interface{}{"restaurant_name": "X"}, http.StatusForbidden},
		{"menu update", http.MethodPut, "/api/v1/menu/1", map[string]interface{}{"name": "X"}, http.StatusForbidden},
		{"order delete", http.MethodDelete, "/api/v1/orders/1", nil, http.StatusForbidden},
		{"settings read", http.MethodGet, "/api/v1/settings", nil, http.StatusOK},
		{"menu read", http.MethodGet, "/api/v1/menu", nil, http.StatusOK},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			code, response := suite.request(tt.method, tt.path, tt.body)
			suite.Equal(tt.want, code)
			if tt.want == http.StatusForbidden {
				suite.Equal("INSUFFICIENT_SCOPE", response["error"].(map[string]interface{})["code"])
			}
		})
	}

	_, response := suite.request(http.MethodGet, "/api/v1/settings", nil)
	suite.Equal(float64(5), response["data"].(map[string]interface{})["tax_rate"], "Forbidden updates change nothing")
}

// TestDeleteOrderRemovesMirrorCopy checks that deletes reach the mirror
func (suite *POSWorkflowTestSuite) TestDeleteOrderRemovesMirrorCopy() {
	friesID := suite.menuItemID("REGULAR FRIES")
	order := suite.placeOrder("T3", map[string]interface{}{"menu_item_id": friesID, "quantity": 1})

	code, _ := suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", int(order["id"].(float64))), nil)
	suite.Equal(http.StatusOK, code)

	_, response := suite.request(http.MethodGet, "/api/v1/orders?source=mirror", nil)
	suite.Equal(float64(0), response["count"])
}

func TestPOSWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(POSWorkflowTestSuite))
}
