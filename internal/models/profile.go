package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Placeholder is rendered wherever a value is missing.
const Placeholder = "—"

// WalletType selects which payout destination of a profile is active.
type WalletType string

const (
	WalletBybitUID   WalletType = "bybit_uid"
	WalletBTCAddress WalletType = "btc_address"
)

// ParseWalletType accepts exactly the two known payout rails.
func ParseWalletType(s string) (WalletType, error) {
	switch WalletType(strings.TrimSpace(s)) {
	case WalletBybitUID:
		return WalletBybitUID, nil
	case WalletBTCAddress:
		return WalletBTCAddress, nil
	default:
		return "", fmt.Errorf("unknown wallet type %q", s)
	}
}

// Profile is one client row of the profiles table.
type Profile struct {
	ID            string          `json:"id"`
	Email         *string         `json:"email"`
	FirstName     *string         `json:"first_name"`
	LastName      *string         `json:"last_name"`
	PUTotal       decimal.Decimal `json:"pu_total"`
	PUConverted   decimal.Decimal `json:"pu_converted"`
	AutoConvert   bool            `json:"auto_convert"`
	CarryoverUSD  decimal.Decimal `json:"carryover_usd"`
	WalletDefault WalletType      `json:"wallet_default"`
	BybitUID      *string         `json:"bybit_uid"`
	BTCAddress    *string         `json:"btc_address"`
	StartDate     *string         `json:"start_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProfileSummary is the projection a client sees on their own dashboard.
type ProfileSummary struct {
	FirstName    *string         `json:"first_name"`
	LastName     *string         `json:"last_name"`
	PUTotal      decimal.Decimal `json:"pu_total"`
	PUConverted  decimal.Decimal `json:"pu_converted"`
	AutoConvert  bool            `json:"auto_convert"`
	CarryoverUSD decimal.Decimal `json:"carryover_usd"`
}

// ProfileUpdate is the column subset an administrator may change.
// Nil pointers are written as NULL.
type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	PUTotal       decimal.Decimal
	PUConverted   decimal.Decimal
	AutoConvert   bool
	CarryoverUSD  decimal.Decimal
	WalletDefault WalletType
	BybitUID      *string
	BTCAddress    *string
}

// FullName joins the non-empty name parts, or returns the placeholder.
func (p Profile) FullName() string {
	return joinName(p.FirstName, p.LastName)
}

// Destination is the active payout destination selected by WalletDefault.
func (p Profile) Destination() string {
	var active *string
	switch p.WalletDefault {
	case WalletBybitUID:
		active = p.BybitUID
	case WalletBTCAddress:
		active = p.BTCAddress
	}
	if active == nil || *active == "" {
		return Placeholder
	}
	return *active
}

// CarryoverDisplay renders the carryover rounded to cents.
func (p Profile) CarryoverDisplay() string {
	return p.CarryoverUSD.StringFixed(2)
}

func (p Profile) AutoConvertLabel() string {
	return onOff(p.AutoConvert)
}

func (p Profile) EmailDisplay() string {
	return orPlaceholder(p.Email)
}

func (p Profile) StartDateDisplay() string {
	return orPlaceholder(p.StartDate)
}

// Greeting is the dashboard heading for a client.
func (s ProfileSummary) Greeting() string {
	if s.FirstName != nil && *s.FirstName != "" {
		return "Ciao " + *s.FirstName + "!"
	}
	return "Dashboard Cliente"
}

func (s ProfileSummary) FullName() string {
	return joinName(s.FirstName, s.LastName)
}

func (s ProfileSummary) CarryoverDisplay() string {
	return s.CarryoverUSD.StringFixed(2)
}

func (s ProfileSummary) AutoConvertLabel() string {
	return onOff(s.AutoConvert)
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinName(first, last *string) string {
	parts := make([]string, 0, 2)
	for _, part := range []*string{first, last} {
		if part != nil && *part != "" {
			parts = append(parts, *part)
		}
	}
	if len(parts) == 0 {
		return Placeholder
	}
	return strings.Join(parts, " ")
}

func orPlaceholder(s *string) string {
	if s == nil {
		return Placeholder
	}
	return *s
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
