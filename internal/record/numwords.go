package record

import (
	"math"
	"strconv"
	"strings"
)

var wordOnes = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var wordTens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// InWords renders an amount in the Indian numbering system: the lowest
// three digits form one group, then successive two-digit groups for
// Thousand, Lac and Crore. The amount is rounded to the nearest integer.
//
//	1234567 -> "Twelve Lac Thirty Four Thousand Five Hundred Sixty Seven"
func InWords(amount float64) string {
	n := int64(math.Round(amount))
	if n == 0 {
		return "Zero"
	}
	if n < 0 {
		return "Minus " + words(-n)
	}
	return words(n)
}

// Rupees renders a monetary amount as its canonical word phrase, e.g.
// 5000000 -> "Fifty Lac Rupees Only".
func Rupees(amount float64) string {
	return InWords(amount) + " Rupees Only"
}

func words(n int64) string {
	switch {
	case n >= 10000000:
		return join(words(n/10000000)+" Crore", words(n%10000000))
	case n >= 100000:
		return join(twoDigits(n/100000)+" Lac", words(n%100000))
	case n >= 1000:
		return join(twoDigits(n/1000)+" Thousand", words(n%1000))
	case n >= 100:
		return join(wordOnes[n/100]+" Hundred", words(n%100))
	default:
		return twoDigits(n)
	}
}

func twoDigits(n int64) string {
	if n < 20 {
		return wordOnes[n]
	}
	return join(wordTens[n/10], wordOnes[n%10])
}

func join(head, tail string) string {
	if tail == "" {
		return head
	}
	return head + " " + tail
}

// FormatIndianNumber groups an amount's integer digits per the Indian
// convention: the last three digits together, then pairs.
//
//	5000000 -> "50,00,000"
func FormatIndianNumber(amount float64) string {
	n := int64(math.Round(amount))
	neg := n < 0
	if neg {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		head := s[:len(s)-3]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		s = strings.Join(groups, ",") + "," + s[len(s)-3:]
	}

	if neg {
		return "-" + s
	}
	return s
}
