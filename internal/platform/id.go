package platform

import (
	"github.com/google/uuid"
)

// NewID returns a new stable identifier for endpoints, prompts and
// negotiation rounds.
func NewID() string {
	return uuid.New().String()
}
