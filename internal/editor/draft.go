package editor

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/astra-console/internal/models"
)

// Draft holds the editable fields of a profile exactly as typed.
type Draft struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	PUTotal       string `json:"pu_total"`
	PUConverted   string `json:"pu_converted"`
	AutoConvert   bool   `json:"auto_convert"`
	CarryoverUSD  string `json:"carryover_usd"`
	WalletDefault string `json:"wallet_default"`
	BybitUID      string `json:"bybit_uid"`
	BTCAddress    string `json:"btc_address"`
}

// ValidationError blocks a commit and carries the message shown inline.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DraftFromProfile seeds a draft with the current values of a row.
func DraftFromProfile(p models.Profile) Draft {
	return Draft{
		FirstName:     models.Deref(p.FirstName),
		LastName:      models.Deref(p.LastName),
		PUTotal:       p.PUTotal.String(),
		PUConverted:   p.PUConverted.String(),
		AutoConvert:   p.AutoConvert,
		CarryoverUSD:  p.CarryoverUSD.String(),
		WalletDefault: string(p.WalletDefault),
		BybitUID:      models.Deref(p.BybitUID),
		BTCAddress:    models.Deref(p.BTCAddress),
	}
}

// Validate checks that the active payout destination is filled in.
func (d Draft) Validate() error {
	wallet, err := models.ParseWalletType(d.WalletDefault)
	if err != nil {
		return &ValidationError{Message: "Seleziona il wallet predefinito: UID Bybit o BTC address."}
	}
	switch wallet {
	case models.WalletBybitUID:
		if strings.TrimSpace(d.BybitUID) == "" {
			return &ValidationError{Message: "UID Bybit obbligatorio quando è il wallet predefinito."}
		}
	case models.WalletBTCAddress:
		if strings.TrimSpace(d.BTCAddress) == "" {
			return &ValidationError{Message: "BTC address obbligatorio quando è il wallet predefinito."}
		}
	}
	return nil
}

// Normalize validates the draft and converts it into the update payload.
// Numbers that do not parse are written as zero rather than rejected.
func (d Draft) Normalize() (models.ProfileUpdate, error) {
	if err := d.Validate(); err != nil {
		return models.ProfileUpdate{}, err
	}
	wallet, _ := models.ParseWalletType(d.WalletDefault)
	return models.ProfileUpdate{
		FirstName:     nullIfBlank(d.FirstName),
		LastName:      nullIfBlank(d.LastName),
		PUTotal:       decimalOrZero(d.PUTotal),
		PUConverted:   decimalOrZero(d.PUConverted),
		AutoConvert:   d.AutoConvert,
		CarryoverUSD:  decimalOrZero(d.CarryoverUSD),
		WalletDefault: wallet,
		BybitUID:      nullIfBlank(d.BybitUID),
		BTCAddress:    nullIfBlank(d.BTCAddress),
	}, nil
}

// ParseBool reads a checkbox or form flag strictly.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func nullIfBlank(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func decimalOrZero(s string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return value
}
