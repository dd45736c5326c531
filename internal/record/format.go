package record

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing a date field. Day-first
// layouts come before month-first since the forms are filled in India.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
}

// FormatDate renders a date string as D/M/YYYY with no zero padding,
// e.g. "2024-03-05" -> "5/3/2024". Unparseable input is returned
// unchanged rather than erased, so a free-text date survives.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return strconv.Itoa(t.Day()) + "/" + strconv.Itoa(int(t.Month())) + "/" + strconv.Itoa(t.Year())
	}
	return s
}

// FormatCurrency renders a monetary amount with its word form:
// "₹ 50,00,000/- (Fifty Lac Rupees Only)". When the caller supplies a
// word phrase it is used verbatim; otherwise one is generated.
func FormatCurrency(amount float64, wordForm string) string {
	wordForm = strings.TrimSpace(wordForm)
	if wordForm == "" {
		wordForm = Rupees(amount)
	}
	return "₹ " + FormatIndianNumber(amount) + "/- (" + wordForm + ")"
}

// ParseAmount extracts a numeric amount from a resolved field value.
// Grouping commas and a leading rupee sign are tolerated.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
