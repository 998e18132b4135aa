package service

// PasswordHasher hides the concrete hashing scheme from the usecase
// layer. Implementations must salt every hash.
type PasswordHasher interface {
	// Hash derives a storable hash from a plaintext password.
	Hash(password string) (string, error)

	// Check reports whether the plaintext password matches the hash.
	Check(password, hash string) bool
}
