package intake

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"
)

const (
	MinNameLength        = 2
	MinDescriptionLength = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps field name to one human-readable error.
type FieldErrors map[string]string

// ValidateStep1 checks only the essential fields: the wizard must not
// block step 1 on anything the second step collects.
func ValidateStep1(f Fields) FieldErrors {
	errs := FieldErrors{}

	if utf8.RuneCountInString(strings.TrimSpace(f.ClientName)) < MinNameLength {
		errs["client_name"] = fmt.Sprintf("le nom doit contenir au moins %d caractères", MinNameLength)
	}
	if !emailPattern.MatchString(strings.TrimSpace(f.ClientEmail)) {
		errs["client_email"] = "email invalide"
	}
	if strings.TrimSpace(f.ProjectType) == "" {
		errs["project_type"] = "veuillez indiquer le type de site"
	}
	if utf8.RuneCountInString(strings.TrimSpace(f.Description)) < MinDescriptionLength {
		errs["description"] = fmt.Sprintf("la description doit contenir au moins %d caractères", MinDescriptionLength)
	}

	return errs
}

// Validate checks the full merged field set. The optional phone is
// parsed against the locale's default region when present; all other
// step-2 fields are free-form.
func Validate(f Fields, locale string) FieldErrors {
	errs := ValidateStep1(f)

	if strings.TrimSpace(f.ClientPhone) != "" {
		if _, ok := ValidatePhone(f.ClientPhone, locale); !ok {
			errs["client_phone"] = "numéro de téléphone invalide"
		}
	}

	return errs
}

// ValidatePhone parses a phone number using the locale's default
// region, falling back to international detection, and returns the
// number formatted internationally when valid. An empty phone is
// valid: the field is optional.
func ValidatePhone(phone, locale string) (string, bool) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", true
	}

	region := RegionForLocale(locale)
	num, err := phonenumbers.Parse(phone, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		// Region-independent retry covers numbers entered with a
		// country prefix that differs from the locale
		num, err = phonenumbers.Parse(phone, "ZZ")
		if err != nil || !phonenumbers.IsValidNumber(num) {
			return "", false
		}
	}

	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL), true
}

// DescriptionProgress reports how many characters are present and how
// many are still missing, for the live counter under the field.
func DescriptionProgress(description string) (count, missing int) {
	count = utf8.RuneCountInString(description)
	if count < MinDescriptionLength {
		missing = MinDescriptionLength - count
	}
	return count, missing
}
