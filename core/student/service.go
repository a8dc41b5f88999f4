package student

import (
	"errors"
	"fmt"
	"time"

	"github.com/enlift/backend/core"
)

var (
	// errors
	ErrEmailExists    = errors.New("this email is already registered")
	errMalformedEmail = errors.New("please enter a valid email address")
)

type (
	Repository interface {
		// CreateStudent assigns the next ID and stores the record.
		// A duplicate email fails with ErrEmailExists without mutating state.
		CreateStudent(s Student) (Student, error)
		// QueryAllStudents returns the full snapshot, most recent first.
		QueryAllStudents() ([]Student, error)
		// UpdateStudentFields overwrites exactly the five mutable fields of
		// the row matching the edit's ID; unknown IDs are a no-op.
		UpdateStudentFields(e Edit) error
		DeleteAllStudents() error
	}

	// BackupWriter mirrors each accepted registration to secondary storage.
	BackupWriter interface {
		WriteStudentBackup(s Student, previousExperience, learningGoals string) error
	}

	// Service is the single entry point turning raw applicant input into a
	// stored, backed-up and notified admission record.
	Service struct {
		repo      Repository
		backup    BackupWriter
		noticeSvc core.NoticeService
		validator *Validator
		logger    core.Logger
	}
)

func NewService(repo Repository, backup BackupWriter, noticeSvc core.NoticeService, validator *Validator, logger core.Logger) *Service {
	return &Service{
		repo:      repo,
		backup:    backup,
		noticeSvc: noticeSvc,
		validator: validator,
		logger:    logger,
	}
}

// Register validates the applicant input and runs the admission pipeline:
// store insert, backup snapshot, welcome notice. The backup and notice
// steps are best-effort; their failures never fail an accepted
// registration. Each call is a single attempt, no retries.
func (svc *Service) Register(ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validator); err != nil {
		return Student{}, err
	}

	s := Student{
		Name:         ns.Name,
		Email:        ns.Email,
		Phone:        ns.Phone,
		Course:       ns.Course,
		Board:        ns.Board,
		Year:         ns.Year,
		Age:          ns.Age,
		RegisteredAt: time.Now().UTC(),
		Status:       StatusPending,
	}
	s, err := svc.repo.CreateStudent(s)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return Student{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		return Student{}, err
	}

	if err := svc.backup.WriteStudentBackup(s, ns.PreviousExperience, ns.LearningGoals); err != nil {
		svc.logger.Error(fmt.Sprintf("writing registration backup: %v", err), err, s)
	}
	svc.noticeSvc.SendWelcome(core.WelcomeNotice{Email: s.Email, Name: s.Name, Course: s.Course})

	return s, nil
}
