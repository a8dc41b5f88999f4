package testutil

import (
	"io"
	"log"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/enlift/backend/core"
	"github.com/enlift/backend/core/student"
	"github.com/enlift/backend/storage/database"
)

// NewTestDB opens an in-memory record store with the schema applied.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1) // each :memory: connection is its own database
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewConfig returns a test config pointing every on-disk location at a
// temporary directory.
func NewConfig(t *testing.T) *core.Config {
	t.Helper()
	dir := t.TempDir()
	return &core.Config{
		Debug:         true,
		TestMode:      true,
		Env:           "TEST",
		AppName:       "EnLift-Institute",
		WorkDir:       dir,
		AdminUsername: "arunava",
		AdminPassword: "123Arunava.",
		Server: core.ServerConfig{
			Addr:       ":0",
			SessionTTL: time.Hour,
		},
		Database: core.DatabaseConfig{Path: filepath.Join(dir, "enlift_students.db")},
		Filestore: core.FilestoreConfig{
			StudentsDir: filepath.Join(dir, "students"),
			ContactsDir: filepath.Join(dir, "contacts"),
			EmailsDir:   filepath.Join(dir, "emails"),
		},
	}
}

// NewValidators wires up a validator and translator the way main does.
func NewValidators(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	translator := ut.New(en.New(), en.New())
	trans, ok := translator.GetTranslator("en")
	require.True(t, ok)
	validate := validator.New()
	core.InitValidators(validate, trans)
	return validate, trans
}

// NewLogger returns a quiet logger for tests.
func NewLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// CreateStudent inserts a record directly through the repository.
func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, email, course, board string,
	year, age int,
	status string,
	registeredAt ...time.Time,
) student.Student {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(registeredAt) > 0 {
		tstamp = registeredAt[0].UTC()
	}
	s := student.Student{
		Name:         name,
		Email:        email,
		Phone:        "9999999999",
		Course:       course,
		Board:        board,
		Year:         year,
		Age:          age,
		RegisteredAt: tstamp,
		Status:       status,
	}
	s, err := repo.CreateStudent(s)
	require.NoError(t, err)
	return s
}

// NoticeRecorder is a core.NoticeService capturing sent notices.
type NoticeRecorder struct {
	mu   sync.Mutex
	Sent []core.WelcomeNotice
}

var _ core.NoticeService = (*NoticeRecorder)(nil)

func (r *NoticeRecorder) SendWelcome(n core.WelcomeNotice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, n)
}
