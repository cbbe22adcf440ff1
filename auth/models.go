package auth

import "time"

// User is an account held by the credential store. The password is stored
// only as a bcrypt digest and is never serialized.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	Roles          RoleSet   `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
}

// Identity is the verified, request-scoped result of authentication: either
// a successful credential check at login or a validated token on any later
// request. It is created fresh per request and discarded with it.
type Identity struct {
	Subject string
	Roles   RoleSet
}
