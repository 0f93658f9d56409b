package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is pinned one notch above the library default. Hashing happens
// only on registration and password checks only on login, so the extra work
// factor costs nothing on the hot paths.
const bcryptCost = bcrypt.DefaultCost + 1

// HashPassword derives the bcrypt hash stored in users.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hash), err
}

// CheckPasswordHash reports whether the plaintext password matches the stored hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
