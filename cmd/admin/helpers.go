package admin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// formatMoney formats an amount with two decimals and thousands separators
func formatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + formatMoney(d.Neg())
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	result := ""
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			result += ","
		}
		result += string(digit)
	}
	return result + "." + frac
}

// truncateString truncates a string to a maximum length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// padRight pads a string to the right with spaces
func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// formatTable formats data as a simple ASCII table
func formatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 || len(rows) == 0 {
		return ""
	}

	// Calculate column widths
	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	separator := "+"
	for _, width := range colWidths {
		separator += strings.Repeat("-", width+2) + "+"
	}

	var result strings.Builder

	result.WriteString(separator + "\n")
	result.WriteString("|")
	for i, header := range headers {
		result.WriteString(" " + padRight(header, colWidths[i]) + " |")
	}
	result.WriteString("\n" + separator + "\n")

	for _, row := range rows {
		result.WriteString("|")
		for i, cell := range row {
			if i < len(colWidths) {
				result.WriteString(" " + padRight(cell, colWidths[i]) + " |")
			}
		}
		result.WriteString("\n")
	}
	result.WriteString(separator)

	return result.String()
}

// colorText returns text with ANSI color codes
func colorText(text string, color string) string {
	colors := map[string]string{
		"red":    "\033[31m",
		"green":  "\033[32m",
		"yellow": "\033[33m",
		"blue":   "\033[34m",
		"reset":  "\033[0m",
	}

	if code, ok := colors[color]; ok {
		return code + text + colors["reset"]
	}
	return text
}

// parseID parses a positive numeric id argument
func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// optionalInt parses args[i] when present
func optionalInt(args []string, i, fallback int) (int, error) {
	if len(args) <= i {
		return fallback, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid number: %q", args[i])
	}
	return n, nil
}
