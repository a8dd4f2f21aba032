package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestProfileDestination(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    string
	}{
		{
			name:    "bybit active",
			profile: Profile{WalletDefault: WalletBybitUID, BybitUID: str("12345"), BTCAddress: str("bc1qxyz")},
			want:    "12345",
		},
		{
			name:    "btc active",
			profile: Profile{WalletDefault: WalletBTCAddress, BybitUID: str("12345"), BTCAddress: str("bc1qxyz")},
			want:    "bc1qxyz",
		},
		{
			name:    "active destination empty",
			profile: Profile{WalletDefault: WalletBTCAddress, BybitUID: str("12345"), BTCAddress: str("")},
			want:    Placeholder,
		},
		{
			name:    "active destination null",
			profile: Profile{WalletDefault: WalletBybitUID, BTCAddress: str("bc1qxyz")},
			want:    Placeholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.Destination())
		})
	}
}

func TestProfileFullName(t *testing.T) {
	assert.Equal(t, "Anna Rossi", Profile{FirstName: str("Anna"), LastName: str("Rossi")}.FullName())
	assert.Equal(t, "Rossi", Profile{FirstName: str(""), LastName: str("Rossi")}.FullName())
	assert.Equal(t, Placeholder, Profile{}.FullName())
}

func TestProfileDisplayHelpers(t *testing.T) {
	p := Profile{
		CarryoverUSD: decimal.RequireFromString("12.345"),
		AutoConvert:  true,
	}
	assert.Equal(t, "12.35", p.CarryoverDisplay())
	assert.Equal(t, "ON", p.AutoConvertLabel())
	assert.Equal(t, Placeholder, p.EmailDisplay())
	assert.Equal(t, Placeholder, p.StartDateDisplay())

	p.Email = str("anna@example.com")
	p.StartDate = str("2024-03-01")
	assert.Equal(t, "anna@example.com", p.EmailDisplay())
	assert.Equal(t, "2024-03-01", p.StartDateDisplay())
}

func TestSummaryGreeting(t *testing.T) {
	assert.Equal(t, "Ciao Anna!", ProfileSummary{FirstName: str("Anna")}.Greeting())
	assert.Equal(t, "Dashboard Cliente", ProfileSummary{}.Greeting())
	assert.Equal(t, "OFF", ProfileSummary{}.AutoConvertLabel())
	assert.Equal(t, "0.00", ProfileSummary{}.CarryoverDisplay())
}

func TestParseWalletType(t *testing.T) {
	w, err := ParseWalletType("btc_address")
	require.NoError(t, err)
	assert.Equal(t, WalletBTCAddress, w)

	w, err = ParseWalletType(" bybit_uid ")
	require.NoError(t, err)
	assert.Equal(t, WalletBybitUID, w)

	_, err = ParseWalletType("paypal")
	assert.Error(t, err)
	_, err = ParseWalletType("")
	assert.Error(t, err)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleClient))
	assert.False(t, ValidRole("root"))
}
