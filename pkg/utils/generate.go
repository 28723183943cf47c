package utils

import (
	"github.com/google/uuid"
)

func GenerateUUIDString() string {
	return uuid.New().String()
}

// IsUUID reports whether s parses as a UUID in any of the accepted forms.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
