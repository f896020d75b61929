package push

import (
	"time"

	"github.com/google/uuid"
)

// MaxBatchSize is the gateway's per-request message limit.
const MaxBatchSize = 100

const defaultSound = "default"

// Token is a device registration. Rows are owned by the client apps; this
// package only reads them.
type Token struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	Platform  *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MessageData struct {
	Category        string  `json:"category"`
	ActionReference *string `json:"action_reference,omitempty"`
	NotificationID  string  `json:"notification_id"`
}

// Message is one gateway message addressed to a single device token.
type Message struct {
	To    string      `json:"to"`
	Sound string      `json:"sound"`
	Title string      `json:"title"`
	Body  string      `json:"body"`
	Data  MessageData `json:"data"`
}

// Result is the aggregate outcome of one Deliver call.
type Result struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// NoRecipients reports that the recipient had no active tokens.
func (r *Result) NoRecipients() bool {
	return r.Attempted == 0
}
