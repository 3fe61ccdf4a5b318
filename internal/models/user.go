package models

import "time"

// User represents a registered user. The password column stores a bcrypt hash
// and carries `json:"-"` so it can never appear in a response body.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserPage is a transient page of users plus the pagination figures derived
// for it. It is built fresh per list request and never persisted.
type UserPage struct {
	Users      []User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
