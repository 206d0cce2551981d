package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/warehouse/internal/contracts"
	"github.com/wonny/warehouse/pkg/logger"
)

func TestHub_PublishRobot(t *testing.T) {
	hub := NewHub(logger.Nop())
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	battery := 87.5
	hub.PublishRobot(contracts.Robot{ID: "R12", Status: "active", BatteryLevel: &battery, Zone: "B"})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageRobotUpdate, msg.Type)
	require.NotNil(t, msg.Robot)
	assert.Equal(t, "R12", msg.Robot.ID)
	assert.Equal(t, 87.5, *msg.Robot.BatteryLevel)
}

func TestHub_ClientLeaves(t *testing.T) {
	hub := NewHub(logger.Nop())
	server := httptest.NewServer(hub)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)

	// publishing with no clients is a no-op
	hub.PublishRobot(contracts.Robot{ID: "R1"})
}
