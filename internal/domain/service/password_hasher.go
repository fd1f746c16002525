// Package service defines the stateless services the use cases depend on.
package service

// PasswordHasher hashes and verifies account passwords. Only the hash is ever stored.
type PasswordHasher interface {
	// Hash returns a salted hash of password.
	Hash(password string) (string, error)

	// Check reports whether password matches hash. A malformed hash never matches.
	Check(password, hash string) bool
}
