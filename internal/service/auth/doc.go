// Package auth issues and validates JWT bearer tokens and hashes passwords.
//
// Access and refresh tokens are HS256-signed JWTs that differ only in their
// "type" claim and lifetime; each validator rejects the other type. Tokens
// are stateless and cannot be revoked before they expire.
package auth
