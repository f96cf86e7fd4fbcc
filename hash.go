package main

import "golang.org/x/crypto/bcrypt"

// hashPassword derives a salted one-way digest. The cost is fixed at the
// library default; it is deliberately not configurable.
func hashPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	return string(b), err
}

// comparePassword reports whether p matches hash. An empty hash (a
// federation-only account) never matches anything.
func comparePassword(hash, p string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(p)) == nil
}
