package notification

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryOrder    Category = "order"
	CategoryPromo    Category = "promo"
	CategorySystem   Category = "system"
	CategoryWallet   Category = "wallet"
	CategoryCart     Category = "cart"
	CategoryWishlist Category = "wishlist"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryOrder, CategoryPromo, CategorySystem, CategoryWallet, CategoryCart, CategoryWishlist:
		return true
	}
	return false
}

// Notification is one persisted, per-user record. Broadcasts are always
// expanded into one Notification per recipient.
type Notification struct {
	ID          uuid.UUID `json:"id"`
	RecipientID uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Category    Category  `json:"type"`
	ActionURL   *string   `json:"action_url,omitempty"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

type Payload struct {
	Title     string
	Message   string
	Category  Category
	ActionURL *string
}

// Target selects the recipients of a Notify call. The zero value is a
// broadcast to every customer.
type Target struct {
	RecipientID *uuid.UUID
}

func SingleUser(id uuid.UUID) Target {
	return Target{RecipientID: &id}
}

func Broadcast() Target {
	return Target{}
}

func (t Target) IsBroadcast() bool {
	return t.RecipientID == nil
}
