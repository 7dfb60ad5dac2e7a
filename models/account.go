package models

import "time"

const (
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Surname      string    `gorm:"size:100;not null" json:"surname"`
	Phone        string    `gorm:"size:50" json:"phone"`
	Email        string    `gorm:"size:150;not null;uniqueIndex" json:"email"`
	Gender       string    `gorm:"size:30" json:"gender"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"` // never returned in JSON
	Role         string    `gorm:"size:20;not null;default:guest;index" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleGuest
}
