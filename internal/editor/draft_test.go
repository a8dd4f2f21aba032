package editor

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/astra-console/internal/models"
)

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantErr string
	}{
		{name: "bybit filled", draft: Draft{WalletDefault: "bybit_uid", BybitUID: "12345"}},
		{name: "btc filled", draft: Draft{WalletDefault: "btc_address", BTCAddress: "bc1qxyz"}},
		{
			name:    "bybit blank",
			draft:   Draft{WalletDefault: "bybit_uid", BybitUID: "   ", BTCAddress: "bc1qxyz"},
			wantErr: "UID Bybit obbligatorio quando è il wallet predefinito.",
		},
		{
			name:    "btc blank",
			draft:   Draft{WalletDefault: "btc_address", BybitUID: "12345"},
			wantErr: "BTC address obbligatorio quando è il wallet predefinito.",
		},
		{
			name:    "unknown wallet",
			draft:   Draft{WalletDefault: "paypal", BybitUID: "12345"},
			wantErr: "Seleziona il wallet predefinito: UID Bybit o BTC address.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantErr, validationErr.Message)
		})
	}
}

func TestDraftNormalize(t *testing.T) {
	update, err := Draft{
		FirstName:     "  Anna ",
		LastName:      "",
		PUTotal:       "12.5",
		PUConverted:   "abc",
		CarryoverUSD:  "",
		AutoConvert:   true,
		WalletDefault: "btc_address",
		BybitUID:      "12345",
		BTCAddress:    " bc1qxyz ",
	}.Normalize()
	require.NoError(t, err)

	require.NotNil(t, update.FirstName)
	assert.Equal(t, "Anna", *update.FirstName)
	assert.Nil(t, update.LastName)
	assert.True(t, update.PUTotal.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, update.PUConverted.IsZero(), "unparseable numbers become zero")
	assert.True(t, update.CarryoverUSD.IsZero())
	assert.True(t, update.AutoConvert)
	assert.Equal(t, models.WalletBTCAddress, update.WalletDefault)
	assert.Equal(t, "12345", *update.BybitUID)
	assert.Equal(t, "bc1qxyz", *update.BTCAddress)
}

func TestDraftNormalizeRejectsInvalid(t *testing.T) {
	_, err := Draft{WalletDefault: "bybit_uid"}.Normalize()
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestDraftFromProfile(t *testing.T) {
	bybit := "12345"
	first := "Anna"
	d := DraftFromProfile(models.Profile{
		ID:            "row",
		FirstName:     &first,
		PUTotal:       decimal.RequireFromString("3.25"),
		CarryoverUSD:  decimal.RequireFromString("1.5"),
		WalletDefault: models.WalletBybitUID,
		BybitUID:      &bybit,
	})

	assert.Equal(t, Draft{
		FirstName:     "Anna",
		PUTotal:       "3.25",
		PUConverted:   "0",
		CarryoverUSD:  "1.5",
		WalletDefault: "bybit_uid",
		BybitUID:      "12345",
	}, d)
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"on", "true", "1", "YES", " On "} {
		assert.True(t, ParseBool(v), v)
	}
	for _, v := range []string{"", "off", "0", "no", "maybe"} {
		assert.False(t, ParseBool(v), v)
	}
}
