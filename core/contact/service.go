package contact

import (
	"time"

	"github.com/pkg/errors"

	"github.com/enlift/backend/core"
)

type (
	// BackupWriter persists each accepted inquiry as a flat-file artifact.
	BackupWriter interface {
		WriteContactBackup(inq Inquiry) error
	}

	Service struct {
		backup    BackupWriter
		validator *Validator
		logger    core.Logger
	}
)

func NewService(backup BackupWriter, validator *Validator, logger core.Logger) *Service {
	return &Service{backup: backup, validator: validator, logger: logger}
}

// Submit validates and stores a contact inquiry.
func (svc *Service) Submit(ni NewInquiry) (Inquiry, error) {
	if err := ni.Validate(svc.validator); err != nil {
		return Inquiry{}, err
	}

	inq := Inquiry{
		Name:       ni.Name,
		Email:      ni.Email,
		Phone:      ni.Phone,
		Department: ni.Department,
		Message:    ni.Message,
		Timestamp:  time.Now().UTC(),
	}
	if err := svc.backup.WriteContactBackup(inq); err != nil {
		return Inquiry{}, errors.Wrap(err, "writing contact backup")
	}
	return inq, nil
}
