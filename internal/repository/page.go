package repository

import "strings"

// Page is a LIMIT/OFFSET window.
type Page struct {
	Limit  int
	Offset int
}

// NewPage converts a 1-based page number into a window.
func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	return Page{Limit: limit, Offset: (page - 1) * limit}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func trimLeadingZeros(s string) string {
	if t := strings.TrimLeft(s, "0"); t != "" {
		return t
	}
	return "0"
}
