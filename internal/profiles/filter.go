package profiles

import (
	"strings"

	"github.com/hongminglow/astra-console/internal/models"
)

// Filter keeps the rows whose name, email, Bybit UID or BTC address contains
// the query, case-insensitively. A blank query returns rows unchanged.
func Filter(rows []models.Profile, query string) []models.Profile {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return rows
	}

	out := make([]models.Profile, 0, len(rows))
	for _, row := range rows {
		if matches(row, term) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row models.Profile, term string) bool {
	name := models.Deref(row.FirstName) + " " + models.Deref(row.LastName)
	for _, field := range []string{
		name,
		models.Deref(row.Email),
		models.Deref(row.BybitUID),
		models.Deref(row.BTCAddress),
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
