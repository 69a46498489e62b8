package models

// User represents a registered account and its side of the follow graph.
//
// Following and Followers are directed edges stored as username lists; they
// are not guaranteed to be symmetric. A "friend" is never stored; it is
// derived as the intersection of the two lists at read time.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	// Stored and compared as plaintext. Hardening the credential scheme is
	// explicitly out of scope; handlers blank this field before responding.
	Password  string   `json:"password,omitempty"`
	Following []string `json:"following"`
	Followers []string `json:"followers"`
}

// IsFollowing reports whether the user has an outgoing edge to username.
func (u User) IsFollowing(username string) bool {
	for _, name := range u.Following {
		if name == username {
			return true
		}
	}
	return false
}

// Sanitize returns a copy safe to hand to presentation.
func (u User) Sanitize() User {
	u.Password = ""
	return u
}
