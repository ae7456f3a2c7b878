package utils

import "github.com/google/uuid"

// GenerateID returns a new random identifier for a podcast run.
func GenerateID() string {
	return uuid.NewString()
}
