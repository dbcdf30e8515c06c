package models

import (
	"strings"

	"github.com/google/uuid"
)

// ensureID assigns a random UUID when the primary key is empty.
func ensureID(id *string) {
	if strings.TrimSpace(*id) == "" {
		*id = uuid.NewString()
	}
}
