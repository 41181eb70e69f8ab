package profile

// Status tells a stored profile apart from one that was never filled in.
type Status string

const (
	StatusCompleted    Status = "completed"
	StatusNotCompleted Status = "not_completed"
)

// Profile is the document stored per user. Only user_id links it to the
// credential store.
type Profile struct {
	UserID  int64  `bson:"user_id" json:"-"`
	Age     int64  `bson:"age" json:"age"`
	DOB     string `bson:"dob" json:"dob"`
	Contact string `bson:"contact" json:"contact"`
}

// View is the result of a profile lookup. Profile is nil when Status is
// StatusNotCompleted.
type View struct {
	Status  Status
	Profile *Profile
}

// UpdateRequest holds the three editable fields after coercion.
type UpdateRequest struct {
	Age     int64
	DOB     string
	Contact string
}

// GetResponse is the body of GET /api/profile.
type GetResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
	Status   Status `json:"status"`
	Message  string `json:"message,omitempty"`
	Profile  any    `json:"profile"`
}
