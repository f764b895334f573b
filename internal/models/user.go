// Package models defines the records shared by the credential store, the
// services and the presentation layer.
package models

import "time"

// User is a registered account. PasswordHash is an argon2id hash string,
// never the plaintext.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
