package customers

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no customer has the requested id
var ErrNotFound = errors.New("customer not found")

// Customer is a stored client that documents can be addressed to
type Customer struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FullName    string    `json:"full_name" gorm:"column:full_name;size:150;not null"`
	Email       string    `json:"email" gorm:"size:150;not null"`
	PhoneNumber string    `json:"phone_number" gorm:"size:20;not null"`
	Address     string    `json:"address" gorm:"size:200;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName pins the table name regardless of naming strategy
func (Customer) TableName() string {
	return "customers"
}

// CustomerRequest is the create and update payload
type CustomerRequest struct {
	FullName    string `json:"full_name" form:"full_name" binding:"required,notblank,max=150"`
	Email       string `json:"email" form:"email" binding:"required,email,max=150"`
	PhoneNumber string `json:"phone_number" form:"phone_number" binding:"required,notblank,max=20"`
	Address     string `json:"address" form:"address" binding:"required,notblank,max=200"`
}

// Page is one page of a customer listing
type Page struct {
	Items      []Customer `json:"items"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"total_pages"`
}
