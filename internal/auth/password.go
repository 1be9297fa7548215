package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// specialCharacters mirrors the ASCII punctuation set.
const specialCharacters = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// HashPassword hashes a password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, passwordHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}

// HasSpecialCharacter reports whether the password contains at least one
// ASCII punctuation character.
func HasSpecialCharacter(password string) bool {
	return strings.ContainsAny(password, specialCharacters)
}
