package models

import (
	"fmt"
	"strings"
)

// Reserved setting keys.
const (
	KeyAutoBackupFrequency = "auto_backup_frequency"
	KeyLastBackupAt        = "last_backup_at"
	KeyShopName            = "shop_name"
	KeyShopAddress         = "shop_address"
	KeyAccessPINHash       = "access_pin_hash"
)

// Frequency is how often automatic backups run.
type Frequency string

const (
	FrequencyOff     Frequency = "off"
	FrequencyHourly  Frequency = "hourly"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// DefaultFrequency is seeded on first initialization.
const DefaultFrequency = FrequencyDaily

// ParseFrequency accepts the canonical names plus "none", which older
// databases used for "off".
func ParseFrequency(s string) (Frequency, error) {
	switch v := Frequency(strings.ToLower(strings.TrimSpace(s))); v {
	case FrequencyOff, FrequencyHourly, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return v, nil
	case "none", "":
		return FrequencyOff, nil
	}
	return "", &ValidationError{Field: KeyAutoBackupFrequency, Reason: fmt.Sprintf("unknown frequency %q", s)}
}

// DefaultSettings are inserted when the database is created. Existing values are never overwritten.
func DefaultSettings() map[string]string {
	return map[string]string{
		KeyAutoBackupFrequency: string(DefaultFrequency),
		KeyLastBackupAt:        "",
		KeyShopName:            "",
		KeyShopAddress:         "",
	}
}
