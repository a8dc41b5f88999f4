package database

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/enlift/backend/core/student"
)

// timeLayout keeps the fractional seconds fixed-width so that the TEXT
// column sorts lexicographically in chronological order; RFC3339Nano trims
// trailing zeros and would mis-sort timestamps within the same second.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

// studentRow mirrors the students table; the optional columns are nullable
// so rows written by older tooling still scan.
type studentRow struct {
	ID               int         `db:"id"`
	Name             string      `db:"name"`
	Email            string      `db:"email"`
	Phone            null.String `db:"phone"`
	Course           null.String `db:"course"`
	Board            null.String `db:"board"`
	Year             null.Int    `db:"year"`
	Age              null.Int    `db:"age"`
	RegistrationDate null.String `db:"registration_date"`
	Status           string      `db:"status"`
}

func toRow(s student.Student) studentRow {
	return studentRow{
		ID:               s.ID,
		Name:             s.Name,
		Email:            s.Email,
		Phone:            null.NewString(s.Phone, s.Phone != ""),
		Course:           null.NewString(s.Course, s.Course != ""),
		Board:            null.NewString(s.Board, s.Board != ""),
		Year:             null.NewInt(s.Year, s.Year != 0),
		Age:              null.NewInt(s.Age, s.Age != 0),
		RegistrationDate: null.NewString(s.RegisteredAt.UTC().Format(timeLayout), !s.RegisteredAt.IsZero()),
		Status:           s.Status,
	}
}

func fromRow(row studentRow) student.Student {
	registeredAt, _ := time.Parse(time.RFC3339Nano, row.RegistrationDate.String)
	return student.Student{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Phone:        row.Phone.String,
		Course:       row.Course.String,
		Board:        row.Board.String,
		Year:         row.Year.Int,
		Age:          row.Age.Int,
		RegisteredAt: registeredAt,
		Status:       row.Status,
	}
}

func (repo *studentRepository) CreateStudent(s student.Student) (student.Student, error) {
	res, err := repo.db.NamedExec(`
		INSERT INTO students (name, email, phone, course, board, year, age, registration_date, status)
		VALUES (:name, :email, :phone, :course, :board, :year, :age, :registration_date, :status)`,
		toRow(s),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return student.Student{}, student.ErrEmailExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "reading inserted ID")
	}
	s.ID = int(id)
	return s, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.Select(&rows, `SELECT * FROM students ORDER BY registration_date DESC`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, fromRow(row))
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudentFields(e student.Edit) error {
	_, err := repo.db.NamedExec(`
		UPDATE students SET phone=:phone, board=:board, year=:year, age=:age, status=:status
		WHERE id=:id`,
		e,
	)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return nil
}

func (repo *studentRepository) DeleteAllStudents() error {
	if _, err := repo.db.Exec(`DELETE FROM students`); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite3.Error
	if stderrors.As(err, &serr) {
		return serr.ExtendedCode() == sqlite3.CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
