package password

import "golang.org/x/crypto/bcrypt"

// Cost is the fixed bcrypt cost factor. Changing it only affects newly
// hashed passwords; existing hashes keep the cost they were created with.
const Cost = 10

// dummyHash is a valid bcrypt hash of a random string. Login compares
// against it when the email is unknown so that path costs roughly the same
// as a real comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Hash returns the bcrypt hash of a plaintext password.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches the stored bcrypt hash. It never
// logs or returns either value.
func Verify(plain, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plain)) == nil
}

// VerifyDummy burns a bcrypt comparison against a constant hash. Callers use
// it on the unknown-email path so timing does not reveal whether an account
// exists.
func VerifyDummy(plain string) {
	bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
}
