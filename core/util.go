package core

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var hexColorRegex = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// NormalizeHexColor turns "abc", "#abc" or "#aabbcc" into "#AABBCC".
// ok is false when `s` is not a 3 or 6 digit hex color.
func NormalizeHexColor(s string) (color string, ok bool) {
	s = CleanString(s)
	if !hexColorRegex.MatchString(s) {
		return "", false
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return "#" + strings.ToUpper(hex), true
}

// Getwd walks up from the working directory looking for the module root (the directory holding go.mod).
// go test runs inside the package directory, so relative paths like config/ need this.
// Falls back to the working directory when no go.mod is found (e.g. a deployed binary).
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
