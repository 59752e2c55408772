package tool

import (
	"strings"

	"github.com/google/uuid"
)

func GenerateRandomUUID() string {
	return uuid.New().String()
}

// GenerateRequestID returns a short id used to correlate the log lines of one call.
func GenerateRequestID() string {
	return strings.ReplaceAll(GenerateRandomUUID(), "-", "")[:12]
}
