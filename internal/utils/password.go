package utils

import (
    "crypto/sha256"
    "crypto/subtle"
    "encoding/base64"
)

// HashPassword returns the base64-encoded SHA-256 digest of the UTF-8
// password bytes.
//
// WARNING: this is a single unsalted hash with no work factor.  It is
// kept byte-for-byte compatible with the credential store this service
// inherited so existing hashes keep verifying.  Do NOT reuse this scheme
// in a new deployment; a salted KDF (bcrypt/argon2) with a migration
// path is required before the stored format can change.
func HashPassword(plain string) string {
    sum := sha256.Sum256([]byte(plain))
    return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifyPassword re-hashes the candidate password and compares it with
// the stored hash in constant time.
func VerifyPassword(hash, plain string) bool {
    computed := HashPassword(plain)
    return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
