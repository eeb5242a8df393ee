package model

import "time"

type User struct {
	ID          string     `json:"id"`
	LoginID     string     `json:"login_id"`
	Email       string     `json:"email"`
	Nickname    string     `json:"nickname"`
	Level       int        `json:"level"`
	Experience  int        `json:"experience"`
	WmtiType    *string    `json:"wmti_type,omitempty"`
	Version     int64      `json:"-"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
