package web

import (
	"fmt"
	"html/template"

	"github.com/scmmishra/inorder/internal/models"
)

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"year":          year,
		"formatNum":     formatNum,
		"truncate":      truncate,
		"plural":        plural,
		"add":           func(a, b int) int { return a + b },
		"bookSearchURL": models.BookSearchURL,
		"authorURL":     models.AuthorURL,
	}
}

func year(y int) string {
	if y == 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%d", y)
}

func formatNum(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1_000_000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
