package ingest

import (
	"strings"

	"github.com/joseph-ayodele/sales-tracker/constants"
)

// AllowedExt checks if a file extension is in the allowed spreadsheet set.
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
