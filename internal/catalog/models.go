package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("service not found")
	ErrInvalidPrice = errors.New("price must be a non-negative amount")
)

// Service is a billable service offered to customers
type Service struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:150;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Description string          `json:"description" gorm:"size:500"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName pins the table name regardless of naming strategy
func (Service) TableName() string {
	return "services"
}

// PriceInput accepts "12,50", "12.50" and bare JSON numbers
type PriceInput string

func (p *PriceInput) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	if s == "null" {
		s = ""
	}
	*p = PriceInput(s)
	return nil
}

// Decimal parses the input, treating a comma as the decimal separator
func (p PriceInput) Decimal() (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(string(p)), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, string(p))
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}
	return d, nil
}

// ServiceRequest is the create and update payload
type ServiceRequest struct {
	Name        string     `json:"name" form:"name" binding:"required,notblank,max=150"`
	Price       PriceInput `json:"price" form:"price" binding:"required"`
	Description string     `json:"description" form:"description" binding:"max=500"`
}

// Page is one page of a service listing
type Page struct {
	Items      []Service `json:"items"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	Total      int64     `json:"total"`
	TotalPages int       `json:"total_pages"`
}
