package filestore_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enlift/backend/core/contact"
	"github.com/enlift/backend/core/student"
	"github.com/enlift/backend/storage/filestore"
	testutil "github.com/enlift/backend/tests"
)

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "asha_example.com", filestore.SanitizeEmail("asha@example.com"))
	assert.Equal(t, "plain", filestore.SanitizeEmail("plain"))
}

func TestStore_WriteStudentBackup(t *testing.T) {
	conf := testutil.NewConfig(t)
	store, err := filestore.NewStore(conf)
	require.NoError(t, err)

	registeredAt := time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC)
	s := student.Student{
		ID:           1,
		Name:         "Asha Rao",
		Email:        "asha@example.com",
		Phone:        "9999999999",
		Course:       "BCA - 1st Year",
		Board:        "BCA",
		Year:         1,
		Age:          19,
		RegisteredAt: registeredAt,
		Status:       student.StatusPending,
	}
	require.NoError(t, store.WriteStudentBackup(s, "school computer lab", "become a developer"))

	path := filepath.Join(conf.Filestore.StudentsDir, "asha_example.com.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Asha Rao", doc["name"])
	assert.Equal(t, "asha@example.com", doc["email"])
	assert.Equal(t, "2026-08-30T10:30:00Z", doc["registration_date"])
	assert.Equal(t, "school computer lab", doc["previous_experience"])
	assert.Equal(t, "become a developer", doc["learning_goals"])

	t.Run("same email overwrites", func(t *testing.T) {
		s.Name = "Asha R."
		require.NoError(t, store.WriteStudentBackup(s, "", ""))

		entries, err := os.ReadDir(conf.Filestore.StudentsDir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, "Asha R.", doc["name"])
	})
}

func TestStore_WriteContactBackup(t *testing.T) {
	conf := testutil.NewConfig(t)
	store, err := filestore.NewStore(conf)
	require.NoError(t, err)

	inq := contact.Inquiry{
		Name:       "Bala Iyer",
		Email:      "bala@example.com",
		Department: "Admissions",
		Message:    "When does the next batch start?",
		Timestamp:  time.Date(2026, 8, 31, 9, 15, 42, 0, time.UTC),
	}
	require.NoError(t, store.WriteContactBackup(inq))

	path := filepath.Join(conf.Filestore.ContactsDir, "bala_example.com_20260831_091542.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got contact.Inquiry
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, inq.Name, got.Name)
	assert.Equal(t, inq.Message, got.Message)

	t.Run("timestamp keeps repeat inquiries distinct", func(t *testing.T) {
		inq.Timestamp = inq.Timestamp.Add(time.Second)
		require.NoError(t, store.WriteContactBackup(inq))

		entries, err := os.ReadDir(conf.Filestore.ContactsDir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}
