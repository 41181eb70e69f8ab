package session

import "time"

// Session is a live login. It is identified by an opaque token and carries
// only what the profile endpoints need.
type Session struct {
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"-"`
}

// payload is the JSON value stored under session:{token}.
type payload struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	LoginTime int64  `json:"login_time"`
}
