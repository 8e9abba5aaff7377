package utils

import (
	"github.com/google/uuid"
)

// GenerateRequestID creates a new random request ID
func GenerateRequestID() string {
	return uuid.NewString()
}
