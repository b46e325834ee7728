// Package sqlxrepos implements the domain repositories on postgres with sqlx.
package sqlxrepos

import "github.com/google/uuid"

// isUUID guards uuid columns: postgres rejects malformed values instead of matching nothing.
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
