package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Amounts are carried in kobo (1 naira = 100 kobo) to avoid float arithmetic.

// FormatNaira renders a kobo amount as "₦12,500.00".
func FormatNaira(kobo int64) string {
	sign := ""
	if kobo < 0 {
		sign = "-"
		kobo = -kobo
	}
	return fmt.Sprintf("%s₦%s.%02d", sign, formatThousand(kobo/100), kobo%100)
}

// ParseNairaToKobo parses "₦12,500" or "12500.50" into kobo.
func ParseNairaToKobo(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₦")
	s = strings.TrimPrefix(strings.ToLower(s), "ngn")
	replacer := strings.NewReplacer(",", "", " ", "")
	s = replacer.Replace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid naira amount")
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid naira amount: %w", err)
	}
	kobo := n * 100
	if hasFrac {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid naira amount: %w", err)
		}
		kobo += f
	}
	return kobo, nil
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
