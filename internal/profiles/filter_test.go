package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hongminglow/astra-console/internal/models"
)

func str(s string) *string { return &s }

func fixtures() []models.Profile {
	return []models.Profile{
		{ID: "1", FirstName: str("Anna"), LastName: str("Rossi"), Email: str("anna@example.com"), BybitUID: str("12345")},
		{ID: "2", FirstName: str("Marco"), LastName: str("Bianchi"), Email: str("marco@astra.io"), BTCAddress: str("bc1qMARCO")},
		{ID: "3", Email: str("nobody@example.com")},
		{ID: "4"},
	}
}

func ids(rows []models.Profile) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ID)
	}
	return out
}

func TestFilterBlankQueryReturnsAll(t *testing.T) {
	rows := fixtures()
	assert.Equal(t, rows, Filter(rows, ""))
	assert.Equal(t, rows, Filter(rows, "   "))
}

func TestFilterMatchesFields(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{query: "anna rossi", want: []string{"1"}},
		{query: "ROSSI", want: []string{"1"}},
		{query: "example.com", want: []string{"1", "3"}},
		{query: "234", want: []string{"1"}},
		{query: "bc1qmarco", want: []string{"2"}},
		{query: "  marco  ", want: []string{"2"}},
		{query: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(fixtures(), tt.query)))
		})
	}
}

func TestFilterKeepsOrderAndSubset(t *testing.T) {
	rows := fixtures()
	got := Filter(rows, "r")
	assert.Subset(t, ids(rows), ids(got))
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestFilterNilRows(t *testing.T) {
	assert.Empty(t, Filter(nil, "anna"))
	assert.Nil(t, Filter(nil, ""))
}
