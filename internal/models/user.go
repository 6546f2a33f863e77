package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin             UserRole = "admin"
	RoleSpecialistOTDOU   UserRole = "specialist_ot_dou"
	RoleSpecialistOTOther UserRole = "specialist_ot_other"
	RoleEmployee          UserRole = "employee"
	RoleTrial             UserRole = "trial"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleSpecialistOTDOU, RoleSpecialistOTOther, RoleEmployee, RoleTrial:
		return true
	}
	return false
}

// User is a Telegram user; ID is the Telegram user id.
type User struct {
	ID                int64      `db:"id" json:"id"`
	Username          string     `db:"username" json:"username"`
	FirstName         string     `db:"first_name" json:"first_name"`
	LastName          string     `db:"last_name" json:"last_name"`
	Role              UserRole   `db:"role" json:"role"`
	IsActive          bool       `db:"is_active" json:"is_active"`
	IsBlocked         bool       `db:"is_blocked" json:"is_blocked"`
	ConsentAccepted   bool       `db:"consent_accepted" json:"consent_accepted"`
	ConsentAcceptedAt *time.Time `db:"consent_accepted_at" json:"consent_accepted_at,omitempty"`
	TotalRequests     int        `db:"total_requests" json:"total_requests"`
	LastRequestAt     *time.Time `db:"last_request_at" json:"last_request_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type UserCounts struct {
	Total     int `json:"total_users"`
	Consented int `json:"consented_users"`
	Blocked   int `json:"blocked_users"`
	Active    int `json:"active_users_7d"`
}
