package utils

import (
	"strings"
	"unicode"
)

const minPasswordLength = 8

// IsValidEmail checks that the email string looks like an address.
func IsValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}

// IsComplexPassword checks if the password meets the complexity requirements:
// minimum length plus upper, lower, digit and special characters.
func IsComplexPassword(password string) bool {
	var (
		hasMinLen  = len(password) >= minPasswordLength
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasMinLen && hasUpper && hasLower && hasNumber && hasSpecial
}
