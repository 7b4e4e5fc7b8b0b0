package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"cracker/models"
)

const (
	lowercaseRunes    = "abcdefghijklmnopqrstuvwxyz"
	uppercaseRunes    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphanumericRunes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	symbolRunes       = "!@#$%^&*()-_=+[]{};:,.<>?/"
)

// CharsetRunes returns the characters a charset kind admits, or "" for an
// unknown kind
func CharsetRunes(kind string) string {
	switch kind {
	case models.CharsetLowercase:
		return lowercaseRunes
	case models.CharsetUppercase:
		return uppercaseRunes
	case models.CharsetAlphanumeric:
		return alphanumericRunes
	case models.CharsetSymbols:
		return symbolRunes
	}
	return ""
}

// ValidCharsetKinds reports whether every kind is known and the set is non-empty
func ValidCharsetKinds(kinds []string) bool {
	if len(kinds) == 0 {
		return false
	}
	for _, kind := range kinds {
		if CharsetRunes(kind) == "" {
			return false
		}
	}
	return true
}

// CharsetUnion returns the de-duplicated union of the given charset kinds
func CharsetUnion(kinds []string) string {
	seen := make(map[rune]bool)
	var b strings.Builder
	for _, kind := range kinds {
		for _, r := range CharsetRunes(kind) {
			if !seen[r] {
				seen[r] = true
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// ValidateGuess checks a guess against a block's difficulty config: the guess
// must have exactly the secret's length and use only characters from the
// block's charset union. Runs before any CP is spent.
func ValidateGuess(guess string, length int, kinds []string) error {
	runes := []rune(guess)
	if len(runes) == 0 {
		return fmt.Errorf("guess must not be empty")
	}
	if len(runes) != length {
		return fmt.Errorf("guess must be exactly %d characters", length)
	}

	allowed := make(map[rune]bool)
	for _, r := range CharsetUnion(kinds) {
		allowed[r] = true
	}
	for _, r := range runes {
		if !allowed[r] {
			return fmt.Errorf("character %q is not allowed by this block", r)
		}
	}
	return nil
}

// GenerateSecret produces a uniformly random secret of the given length drawn
// from the union of the charset kinds
func GenerateSecret(length int, kinds []string) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("secret length must be positive")
	}
	union := []rune(CharsetUnion(kinds))
	if len(union) == 0 {
		return "", fmt.Errorf("charset union is empty")
	}

	var b strings.Builder
	max := big.NewInt(int64(len(union)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to draw random character: %w", err)
		}
		b.WriteRune(union[n.Int64()])
	}
	return b.String(), nil
}
