package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string
type AccountStatus string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"

	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
)

type User struct {
	ID        string        `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"not null" json:"name"`
	Email     string        `gorm:"unique;not null" json:"email"`
	Password  string        `gorm:"not null" json:"-"`
	Role      Role          `gorm:"type:VARCHAR(10);default:'user'" json:"role"`
	Status    AccountStatus `gorm:"type:VARCHAR(10);default:'active'" json:"status"`
	Address   Address       `gorm:"embedded" json:"address"`
	Cart      *Cart         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart,omitempty"`
	Orders    []Order       `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Address is embedded in User and snapshotted onto orders as the shipping address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
