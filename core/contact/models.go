package contact

import (
	"time"

	"github.com/enlift/backend/core"
)

// Departments a visitor can address an inquiry to.
var Departments = []string{
	"General Inquiry",
	"Admissions",
	"Technical Support",
	"Fee Related",
	"Career Opportunities",
}

// Inquiry is one contact-form message. It is written once to backup
// storage and never read back by this system.
type Inquiry struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Department string    `json:"department"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"` // UTC
}

// NewInquiry contains information needed to submit an Inquiry.
type NewInquiry struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required"`
	Phone      string `json:"phone"`
	Department string `json:"department" validate:"department"`
	Message    string `json:"message" validate:"required"`
}

func (ni *NewInquiry) Validate(v *Validator) error {
	ni.Name = core.CleanString(ni.Name)
	ni.Email = core.CleanString(ni.Email, true /* lower */)
	ni.Phone = core.CleanString(ni.Phone)
	return v.validate.Struct(ni)
}
