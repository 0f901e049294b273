package models

import "time"

// Role is the authenticated actor's authority level, carried in the JWT
// issued by the upstream identity service.
type Role string

const (
	RoleUser   Role = "user"
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

// Actor is the authenticated identity consumed by the engine. Credential
// issuance and validation happen upstream; the engine only trusts the claims.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// User is a directory entry for a patient, doctor or admin. The engine reads
// it to resolve roles and notification addresses; account management lives in
// a separate service.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Role      Role      `bson:"role" json:"role"`
	Specialty string    `bson:"specialty,omitempty" json:"specialty,omitempty"` // doctors only
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
