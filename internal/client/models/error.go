package models

// ErrorStatus distinguishes backend rejections from client-side failures.
type ErrorStatus string

const (
	StatusFail  ErrorStatus = "fail"
	StatusError ErrorStatus = "error"
)

// ErrorRecord is the single normalized failure shape shown to the user.
type ErrorRecord struct {
	Status  ErrorStatus `json:"status"`
	Message string      `json:"message"`
}

func (e ErrorRecord) String() string {
	return string(e.Status) + ": " + e.Message
}
