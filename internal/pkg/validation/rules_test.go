package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"jane.doe@school.edu.vn",
		"prof-nguyen@uni.edu",
		"  Upper.Case@School.EDU ", // trimmed and lowercased before matching
	}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}

	invalid := []string{
		"",
		"no-at-sign",
		"@missing-local.edu",
		"trailing@dot.",
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("jane.doe"))
	assert.True(t, IsValidUsername("prof-nguyen2"))
	assert.False(t, IsValidUsername("a"))
	assert.False(t, IsValidUsername("Jane.Doe"))
	assert.False(t, IsValidUsername("has space"))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jane.doe", "jane.doe"},
		{"Jane Doe", "jane-doe"},
		{"  Jane_Doe  ", "jane-doe"},
		{"prof..nguyen", "prof..nguyen"},
		{"--weird--", "weird"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestEmailLocalPart(t *testing.T) {
	assert.Equal(t, "jane.doe", EmailLocalPart("jane.doe@school.edu.vn"))
	assert.Equal(t, "no-at", EmailLocalPart("no-at"))
	assert.Equal(t, "@leading", EmailLocalPart("@leading"))
}

func TestRandomDigitSuffix(t *testing.T) {
	suffix := RandomDigitSuffix(4)
	assert.Len(t, suffix, 4)
	for _, r := range suffix {
		assert.True(t, r >= '0' && r <= '9')
	}

	assert.Empty(t, RandomDigitSuffix(0))
}
