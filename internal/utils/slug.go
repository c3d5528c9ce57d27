package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify lowercases s and collapses every non-alphanumeric run into a
// single hyphen.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func randomSuffix() string {
	return uuid.NewString()[:8]
}

// PropertySlug derives a unique, human-readable slug from a listing title.
func PropertySlug(title string) string {
	base := Slugify(title)
	if base == "" {
		base = "property"
	}
	return base + "-" + randomSuffix()
}

// ApplicationSlug derives a collision-resistant, non-guessable slug from the
// applicant name and the property slug.
func ApplicationSlug(applicantName, propertySlug string) string {
	base := Slugify(applicantName)
	if base == "" {
		base = "applicant"
	}
	return base + "-" + propertySlug + "-" + randomSuffix()
}
