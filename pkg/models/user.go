package models

// User is an account for the mocked login forms. Password is stored in
// plaintext and never serialized.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// InsertUser is the payload accepted when registering or logging in.
type InsertUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
