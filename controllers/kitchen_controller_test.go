package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListActiveOrders(t *testing.T) {
	env := newTestEnv(t)
	first := env.placeOrder(t, "T1", "REGULAR FRIES", "", 1)
	second := env.placeOrder(t, "T2", "REGULAR FRIES", "", 1)
	done := env.placeOrder(t, "T3", "REGULAR FRIES", "", 1)

	_, err := env.orders.PrintKOT(t.Context(), first.ID)
	require.NoError(t, err)
	w, _ := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/kitchen/orders/%d/complete", done.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, response := env.do(t, http.MethodGet, "/api/v1/kitchen/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), response["count"])

	data := response["data"].([]interface{})
	assert.Equal(t, float64(second.ID), data[0].(map[string]interface{})["id"], "Pending orders come first")
	assert.Equal(t, float64(first.ID), data[1].(map[string]interface{})["id"])
}

func TestCompleteOrderFromKitchen(t *testing.T) {
	env := newTestEnv(t)
	order := env.placeOrder(t, "T1", "REGULAR FRIES", "", 1)
	path := fmt.Sprintf("/api/v1/kitchen/orders/%d/complete", order.ID)

	w, response := env.do(t, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", response["data"].(map[string]interface{})["status"])

	w, response = env.do(t, http.MethodPost, "/api/v1/kitchen/orders/9999/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", errorCode(response))
}

type streamMessage struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

func TestKitchenStream(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/kitchen/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg streamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.True(t, msg.Success)
	assert.Equal(t, 0, msg.Count, "The first push happens on connect")

	env.placeOrder(t, "T9", "REGULAR FRIES", "", 1)

	for msg.Count == 0 {
		require.NoError(t, conn.ReadJSON(&msg), "Expected a push with the new order")
	}
	assert.Equal(t, 1, msg.Count)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
}
