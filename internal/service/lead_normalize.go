package service

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// normalizePhone returns the E.164 form of a number that parses as valid for region,
// otherwise the trimmed input. Duplicate detection compares the normalized form.
func normalizePhone(raw, region string) string {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return ""
	}
	num, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return phone
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
