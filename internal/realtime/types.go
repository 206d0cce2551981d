package realtime

import "github.com/wonny/warehouse/internal/contracts"

// MessageType tags a live feed message
type MessageType string

const (
	MessageRobotUpdate MessageType = "robot_update"
)

// Message is one frame pushed to dashboards
// ⭐ SSOT: live feed wire format
type Message struct {
	Type  MessageType      `json:"type"`
	Robot *contracts.Robot `json:"robot,omitempty"`
}
