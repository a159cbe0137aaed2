package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@example.com"))
	assert.False(t, IsValidEmail("userexample.com"))
	assert.False(t, IsValidEmail("user@examplecom"))
}

func TestIsComplexPassword(t *testing.T) {
	assert.True(t, IsComplexPassword("Str0ng!pass"))
	assert.False(t, IsComplexPassword("short1!A"[:7]), "below minimum length")
	assert.False(t, IsComplexPassword("alllowercase1!"))
	assert.False(t, IsComplexPassword("ALLUPPERCASE1!"))
	assert.False(t, IsComplexPassword("NoDigits!!"))
	assert.False(t, IsComplexPassword("NoSpecials11"))
}
