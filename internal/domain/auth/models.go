package auth

// Group is a label attached to users; it carries no permission logic.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Groups   []Group `json:"groups"`

	PasswordHash string `json:"-"`
}
