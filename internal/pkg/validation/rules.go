package validation

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Username pattern - lowercase letters, digits, dots, hyphens
	UsernamePattern = `^[a-z0-9.\-]{2,150}$`

	// Password min length
	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	Username *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	Username: regexp.MustCompile(UsernamePattern),
}

// IsValidEmail reports whether the address matches the email pattern.
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// IsValidUsername reports whether the name matches the username pattern.
func IsValidUsername(username string) bool {
	return CompiledPatterns.Username.MatchString(username)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9.\-]+`)

// Slugify lowercases the input and strips characters that are not
// allowed in usernames. Runs of stripped characters collapse into a
// single hyphen; leading and trailing separators are removed.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-.")
}

// EmailLocalPart returns the part of an address before the '@'.
func EmailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

// RandomDigitSuffix returns a string of n random decimal digits, used
// to de-duplicate generated usernames.
func RandomDigitSuffix(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand failure is unrecoverable for suffix quality,
			// fall back to zero rather than aborting approval
			b.WriteByte('0')
			continue
		}
		fmt.Fprintf(&b, "%d", d.Int64())
	}
	return b.String()
}
