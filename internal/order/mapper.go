package order

import "time"

// OrderResponse is the JSON representation returned by the admin API.
type OrderResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Status         string     `json:"status"`
	TotalAmount    int64      `json:"total_amount"`
	Courier        *string    `json:"courier,omitempty"`
	TrackingNumber *string    `json:"tracking_number,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
}

func ToResponse(o *Order) *OrderResponse {
	if o == nil {
		return nil
	}

	return &OrderResponse{
		ID:             o.ID.String(),
		UserID:         o.UserID.String(),
		Status:         string(o.Status),
		TotalAmount:    o.TotalAmount,
		Courier:        o.Courier,
		TrackingNumber: o.TrackingNumber,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		ShippedAt:      o.ShippedAt,
		CompletedAt:    o.CompletedAt,
		CancelledAt:    o.CancelledAt,
	}
}
