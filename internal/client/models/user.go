// Package models defines the client-side data shapes exchanged with the
// backend: users, clubs, auth requests and normalized errors.
package models

import "time"

type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleSilver     UserRole = "SILVER"
	RoleGold       UserRole = "GOLD"
	RolePremium    UserRole = "PREMIUM"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

type SportCategory string

const (
	SportFootball   SportCategory = "football"
	SportBasketball SportCategory = "basketball"
)

type StrongSide string

const (
	StrongSideRight StrongSide = "RIGHT"
	StrongSideLeft  StrongSide = "LEFT"
	StrongSideBoth  StrongSide = "BOTH"
)

type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountInactive  AccountStatus = "INACTIVE"
)

type Phone struct {
	Prefix string `json:"prefix"`
	Number string `json:"number"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type TotalStats struct {
	TotalGames   int `json:"totalGames"`
	TotalPoints  int `json:"totalPoints"`
	TotalAssists int `json:"totalAssists"`
}

type Subscription struct {
	GroupIDs   []string   `json:"groupIds,omitempty"`
	MaxClubs   int        `json:"maxClubs"`
	MaxPlayers int        `json:"maxPlayers"`
	Cost       float64    `json:"cost"`
	IsActive   bool       `json:"isActive"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

// User is the connected-user record returned by the backend.
type User struct {
	ID              string        `json:"_id"`
	Role            UserRole      `json:"role,omitempty"`
	FirstName       string        `json:"firstName,omitempty"`
	LastName        string        `json:"lastName,omitempty"`
	FullName        string        `json:"fullName,omitempty"`
	Image           string        `json:"image,omitempty"`
	Positions       []string      `json:"positions,omitempty"`
	SportCategory   SportCategory `json:"sportCategory,omitempty"`
	YearOfBirth     int           `json:"yearOfBirth,omitempty"`
	CM              int           `json:"cm,omitempty"`
	KG              int           `json:"kg,omitempty"`
	StrongSide      StrongSide    `json:"strongSide,omitempty"`
	AvgSkillRating  float64       `json:"avgSkillRating,omitempty"`
	Email           string        `json:"email,omitempty"`
	IsEmailVerified bool          `json:"isEmailVerified,omitempty"`
	Phone           *Phone        `json:"phone,omitempty"`
	Country         string        `json:"country,omitempty"`
	City            string        `json:"city,omitempty"`
	AccountStatus   AccountStatus `json:"accountStatus,omitempty"`
	Location        *Location     `json:"location,omitempty"`
	Clubs           []string      `json:"clubs,omitempty"`
	ClubsRequests   []string      `json:"clubsRequests,omitempty"`
	Friends         []string      `json:"friends,omitempty"`
	TotalStats      *TotalStats   `json:"totalStats,omitempty"`
	Subscriptions   *Subscription `json:"subscriptions,omitempty"`
	CreatedAt       *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time    `json:"updatedAt,omitempty"`
}

// DisplayName prefers the server-computed full name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Items []T `json:"data"`
}
