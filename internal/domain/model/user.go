package model

// Credential is the authenticated session identity held by the client. It is
// also the body of a successful signup/login response.
type Credential struct {
	Token  string `json:"token"`
	Email  string `json:"email"`
	UserID int64  `json:"userId"`
}

func (c Credential) Valid() bool {
	return c.Token != "" && c.Email != ""
}

type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the stub judge's account record.
type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"` // Not exposed
}
