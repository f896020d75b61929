package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

func StrPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ShortRef is the customer-facing order reference: the first eight
// characters of the id, upper-cased.
func ShortRef(id uuid.UUID) string {
	return strings.ToUpper(id.String()[:8])
}

// OrderActionURL is the in-app deep link for an order.
func OrderActionURL(id uuid.UUID) string {
	return fmt.Sprintf("/orders/%s", id)
}

func WriteJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, map[string]string{"error": message})
}
