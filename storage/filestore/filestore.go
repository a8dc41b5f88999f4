// Package filestore writes the redundant flat-file snapshots kept next to
// the record store: one JSON document per accepted registration and per
// contact inquiry. The files are secondary artifacts for human inspection,
// never a source of truth.
package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/enlift/backend/core"
	"github.com/enlift/backend/core/contact"
	"github.com/enlift/backend/core/student"
)

const timestampLayout = "20060102_150405"

type Store struct {
	studentsDir string
	contactsDir string
}

var (
	_ student.BackupWriter = (*Store)(nil)
	_ contact.BackupWriter = (*Store)(nil)
)

// NewStore creates the backup directories if absent and returns the store.
func NewStore(conf *core.Config) (*Store, error) {
	for _, dir := range []string{conf.Filestore.StudentsDir, conf.Filestore.ContactsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating backup directory %s", dir)
		}
	}
	return &Store{
		studentsDir: conf.Filestore.StudentsDir,
		contactsDir: conf.Filestore.ContactsDir,
	}, nil
}

type studentBackup struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Course             string `json:"course"`
	Board              string `json:"board"`
	Year               int    `json:"year"`
	Age                int    `json:"age"`
	RegistrationDate   string `json:"registration_date"`
	PreviousExperience string `json:"previous_experience"`
	LearningGoals      string `json:"learning_goals"`
}

// WriteStudentBackup writes the registration snapshot named by the
// student's sanitized email. A later write for the same email replaces the
// file (last-write-wins); the store's email uniqueness is what normally
// prevents that from ever happening.
func (s *Store) WriteStudentBackup(st student.Student, previousExperience, learningGoals string) error {
	doc := studentBackup{
		Name:               st.Name,
		Email:              st.Email,
		Phone:              st.Phone,
		Course:             st.Course,
		Board:              st.Board,
		Year:               st.Year,
		Age:                st.Age,
		RegistrationDate:   st.RegisteredAt.Format(time.RFC3339),
		PreviousExperience: previousExperience,
		LearningGoals:      learningGoals,
	}
	path := filepath.Join(s.studentsDir, SanitizeEmail(st.Email)+".json")
	return writeJSON(path, doc)
}

// WriteContactBackup writes the inquiry named by sanitized email plus
// timestamp; the timestamp keeps the name unique so files are never
// overwritten.
func (s *Store) WriteContactBackup(inq contact.Inquiry) error {
	name := SanitizeEmail(inq.Email) + "_" + inq.Timestamp.Format(timestampLayout) + ".json"
	return writeJSON(filepath.Join(s.contactsDir, name), inq)
}

// SanitizeEmail makes an email address safe for use as a file name.
func SanitizeEmail(email string) string {
	return strings.ReplaceAll(email, "@", "_")
}

func writeJSON(path string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling backup")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing backup")
	}
	return nil
}
