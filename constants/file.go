package constants

import "strings"

// AllowedExtensions holds the spreadsheet extensions accepted for ingestion.
var AllowedExtensions = map[string]struct{}{
	"xlsx": {},
	"xlsm": {},
	"xltx": {},
	"xltm": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// DateLayout is the presentation format for calendar dates.
const DateLayout = "2006-01-02"
