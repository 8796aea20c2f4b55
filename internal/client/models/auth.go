package models

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterUserRequest is the multi-step signup form, submitted as one payload.
type RegisterUserRequest struct {
	FirstName     string        `json:"firstName" validate:"required,min=2,max=50"`
	LastName      string        `json:"lastName" validate:"required,min=2,max=50"`
	Email         string        `json:"email" validate:"required,email"`
	Password      string        `json:"password" validate:"required,min=6,max=128"`
	Phone         Phone         `json:"phone"`
	SportCategory SportCategory `json:"sportCategory" validate:"required,oneof=football basketball"`
	YearOfBirth   int           `json:"yearOfBirth" validate:"required,gte=1900,pastyear"`
	Country       string        `json:"country,omitempty" validate:"omitempty,max=64"`
	City          string        `json:"city,omitempty" validate:"omitempty,max=64"`
}

// LoginResult is what a successful login yields. User may be nil when the
// backend only returned a token.
type LoginResult struct {
	Token string
	User  *User
}
