package fill

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

var monthNumPattern = regexp.MustCompile(`\b(0?[1-9]|1[0-2])\b`)

var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7,
	"aug": 8, "sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

// NormalizeDate converts a loosely formatted date string ("May 2021",
// "05/2021", "2021", "2021-05-17", "Present") into the numeric format
// a date or month control expects: YYYY-MM for month controls,
// YYYY-MM-DD for date controls. The month and day default to the first
// of the period when unspecified. "Present" resolves to the current
// period. Returns false when no 4-digit year can be found.
func NormalizeDate(value, controlType string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	var year, month, day int
	if strings.EqualFold(value, "present") || strings.EqualFold(value, "current") || strings.EqualFold(value, "now") {
		now := time.Now()
		year, month, day = now.Year(), int(now.Month()), now.Day()
	} else {
		yearStr := yearPattern.FindString(value)
		if yearStr == "" {
			return "", false
		}
		year = atoi(yearStr)
		month = extractMonth(value, yearStr)
		day = extractDay(value, yearStr)
	}

	if month == 0 {
		month = 1
	}
	if controlType == "month" {
		return fmt.Sprintf("%04d-%02d", year, month), true
	}
	if day == 0 {
		day = 1
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// extractMonth finds a month name or number in the value, ignoring the
// year digits.
func extractMonth(value, yearStr string) int {
	lower := strings.ToLower(value)
	for name, num := range monthNames {
		if containsWord(lower, name) {
			return num
		}
	}
	remainder := strings.Replace(value, yearStr, "", 1)
	if m := monthNumPattern.FindString(remainder); m != "" {
		return atoi(m)
	}
	return 0
}

var dayPattern = regexp.MustCompile(`-(\d{2})\b`)

// extractDay recognizes a trailing day only in ISO-style input
// (YYYY-MM-DD); anything looser defaults to the first of the period.
func extractDay(value, yearStr string) int {
	if !strings.HasPrefix(value, yearStr) {
		return 0
	}
	matches := dayPattern.FindAllStringSubmatch(value, -1)
	if len(matches) == 2 {
		return atoi(matches[1][1])
	}
	return 0
}

func containsWord(text, word string) bool {
	idx := strings.Index(text, word)
	if idx < 0 {
		return false
	}
	after := idx + len(word)
	beforeOK := idx == 0 || !isLetter(text[idx-1])
	afterOK := after >= len(text) || !isLetter(text[after])
	return beforeOK && afterOK
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
