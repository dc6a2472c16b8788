package auth

import "golang.org/x/crypto/bcrypt"

// dummyHash is a bcrypt digest of an unguessable throwaway value. Login
// compares against it when the username does not exist, so a lookup miss
// costs the same as a wrong password.
var dummyHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("todo-backend-dummy-credential"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// HashPassword returns a salted bcrypt digest of plain.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether plain matches the stored digest. It
// returns false for malformed digests instead of erroring, so a corrupt
// record looks the same as a wrong password to the caller.
func CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
