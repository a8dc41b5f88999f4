package student

import (
	"time"

	"github.com/enlift/backend/core"
)

// Statuses
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// CourseNone is the "no selection" placeholder shown by the admission form.
const CourseNone = "Select Course"

var (
	AllStatuses = []string{StatusPending, StatusApproved, StatusRejected, StatusCompleted}

	// Courses is the fixed catalog offered by the institute: school-board
	// courses and college-year courses.
	Courses = []string{
		"ICSE - Computer Applications (9-10)",
		"ICSE - Computer Science (11-12)",
		"CBSE - Informatics Practices (11-12)",
		"CBSE - Computer Science (11-12)",
		"WBCSE - Computer Science (9-10)",
		"WBCSE - Computer Application (11-12)",
		"B.Tech CSE - 1st Year",
		"B.Tech CSE - 2nd Year",
		"B.Tech CSE - 3rd Year",
		"BCA - 1st Year",
		"BCA - 2nd Year",
		"BCA - 3rd Year",
	}

	Boards   = []string{"ICSE", "CBSE", "WBCSE"}
	Programs = []string{"B.Tech (Computer Science)", "BCA"}
)

// Student is one admission record.
// Email is the natural key; RegisteredAt is set at creation and never edited.
type Student struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Course       string    `json:"course"`
	Board        string    `json:"board"`
	Year         int       `json:"year"`
	Age          int       `json:"age"`
	RegisteredAt time.Time `json:"registration_date"` // UTC
	Status       string    `json:"status"`
}

// NewStudent contains information needed to register a new Student.
// PreviousExperience and LearningGoals are kept in the backup snapshot only.
type NewStudent struct {
	Name               string `json:"name" validate:"required"`
	Email              string `json:"email" validate:"required"`
	Phone              string `json:"phone" validate:"required"`
	Course             string `json:"course" validate:"course"`
	Board              string `json:"board"`
	Year               int    `json:"year" validate:"omitempty,min=1,max=12"`
	Age                int    `json:"age" validate:"required,min=8,max=30"`
	Consent            bool   `json:"consent" validate:"required"`
	PreviousExperience string `json:"previous_experience"`
	LearningGoals      string `json:"learning_goals"`
}

// Validate applies the admission rules in order: mandatory fields first,
// then email syntax. The first failing rule wins.
func (ns *NewStudent) Validate(v *Validator) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)

	if err := v.validate.Struct(ns); err != nil {
		return err
	}
	if !emailRegex.MatchString(ns.Email) {
		return core.NewValidationError(errMalformedEmail, core.FieldError{Field: "email", Error: errMalformedEmail.Error()})
	}
	return nil
}

// Edit holds the admin-editable fields of one record. ID selects the row;
// name, email and registration date can never be sent for update.
type Edit struct {
	ID     int    `json:"id" db:"id" validate:"required"`
	Phone  string `json:"phone" db:"phone"`
	Board  string `json:"board" db:"board"`
	Year   int    `json:"year" db:"year" validate:"omitempty,min=1,max=12"`
	Age    int    `json:"age" db:"age" validate:"omitempty,min=8,max=30"`
	Status string `json:"status" db:"status" validate:"status"`
}

func (e *Edit) Validate(v *Validator) error {
	e.Phone = core.CleanString(e.Phone)
	e.Board = core.CleanString(e.Board)
	return v.validate.Struct(e)
}

// QueryFilter narrows a record snapshot; fields compose with AND and
// empty fields pass everything.
type QueryFilter struct {
	Courses  []string   `query:"course"`
	Statuses []string   `query:"status"`
	OnDate   *time.Time `query:"-"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return len(qf.Courses) == 0 && len(qf.Statuses) == 0 && qf.OnDate == nil
}
