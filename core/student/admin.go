package student

import (
	"bytes"
	"encoding/csv"
	"errors"
	"sort"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/enlift/backend/core"
)

// ConfirmationToken is the literal string an operator must supply to
// authorize clearing all records.
const ConfirmationToken = "DELETE"

var ErrConfirmationRequired = errors.New(`type "DELETE" to confirm deletion`)

// AdminService is the operator-facing read/filter/edit/export/delete
// workflow over the full record set.
type AdminService struct {
	repo      Repository
	validator *Validator
	logger    core.Logger
}

func NewAdminService(repo Repository, validator *Validator, logger core.Logger) *AdminService {
	return &AdminService{repo: repo, validator: validator, logger: logger}
}

func (svc *AdminService) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

// Filter keeps the records matching every supplied predicate; omitted
// predicates pass everything. Input order is preserved.
func (svc *AdminService) Filter(students []Student, qf QueryFilter) []Student {
	if qf.IsEmpty() {
		return students
	}
	kept := make([]Student, 0, len(students))
	for _, s := range students {
		if len(qf.Courses) > 0 && !contains(qf.Courses, s.Course) {
			continue
		}
		if len(qf.Statuses) > 0 && !contains(qf.Statuses, s.Status) {
			continue
		}
		if qf.OnDate != nil && !sameDay(s.RegisteredAt, *qf.OnDate) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// Stats are the dashboard headline numbers; a pure function of the snapshot.
type Stats struct {
	Total         int `json:"total"`
	Today         int `json:"today"`
	ActiveCourses int `json:"active_courses"`
	Pending       int `json:"pending"`
}

func (svc *AdminService) Stats(students []Student) Stats {
	now := time.Now().UTC()
	courses := make(map[string]struct{}, len(students))
	st := Stats{Total: len(students)}
	for _, s := range students {
		if sameDay(s.RegisteredAt, now) {
			st.Today++
		}
		if s.Status == StatusPending {
			st.Pending++
		}
		courses[s.Course] = struct{}{}
	}
	st.ActiveCourses = len(courses)
	return st
}

// ApplyEdits saves every edited row through the store, one update per row.
// The sequence is not atomic: an interruption can leave earlier rows saved
// and later ones not, matching the dashboard's bulk-save behavior.
func (svc *AdminService) ApplyEdits(edits []Edit) error {
	for _, e := range edits {
		if err := e.Validate(svc.validator); err != nil {
			return err
		}
	}
	for _, e := range edits {
		if err := svc.repo.UpdateStudentFields(e); err != nil {
			return pkgerrors.Wrapf(err, "updating student %d", e.ID)
		}
	}
	return nil
}

// ExportCSV serializes the given record set to CSV; purely a
// transformation, no store interaction.
func (svc *AdminService) ExportCSV(students []Student) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "name", "email", "phone", "course", "board", "year", "age", "registration_date", "status"}); err != nil {
		return nil, pkgerrors.Wrap(err, "writing CSV header")
	}
	for _, s := range students {
		rec := []string{
			strconv.Itoa(s.ID),
			s.Name,
			s.Email,
			s.Phone,
			s.Course,
			s.Board,
			strconv.Itoa(s.Year),
			strconv.Itoa(s.Age),
			s.RegisteredAt.Format(time.RFC3339),
			s.Status,
		}
		if err := w.Write(rec); err != nil {
			return nil, pkgerrors.Wrap(err, "writing CSV record")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, pkgerrors.Wrap(err, "flushing CSV")
	}
	return buf.Bytes(), nil
}

// ClearAll irreversibly removes every record. The typed confirmation is
// part of this service's contract: it is the only safeguard against
// accidental data loss.
func (svc *AdminService) ClearAll(confirm string) error {
	if confirm != ConfirmationToken {
		return core.NewValidationError(ErrConfirmationRequired, core.FieldError{Field: "confirm", Error: ErrConfirmationRequired.Error()})
	}
	return svc.repo.DeleteAllStudents()
}

// Count is one bucket of a distribution.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CourseDistribution groups the snapshot by course, most popular first.
func (svc *AdminService) CourseDistribution(students []Student) []Count {
	return groupCount(students, func(s Student) string { return s.Course })
}

// StatusDistribution groups the snapshot by status, most frequent first.
func (svc *AdminService) StatusDistribution(students []Student) []Count {
	return groupCount(students, func(s Student) string { return s.Status })
}

// WeeklyTrend counts registrations per calendar date over the trailing
// 7 days, oldest first. The window covers whole calendar days: anything
// registered on the day seven days back counts, regardless of clock time.
// Dates with no registrations are omitted.
func (svc *AdminService) WeeklyTrend(students []Student) []Count {
	y, m, d := time.Now().UTC().AddDate(0, 0, -7).Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	counts := make(map[string]int)
	for _, s := range students {
		if s.RegisteredAt.Before(cutoff) {
			continue
		}
		counts[s.RegisteredAt.Format("2006-01-02")]++
	}
	trend := make([]Count, 0, len(counts))
	for date, n := range counts {
		trend = append(trend, Count{Key: date, Count: n})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Key < trend[j].Key })
	return trend
}

// AgeDistribution groups the snapshot by age, youngest first.
func (svc *AdminService) AgeDistribution(students []Student) []Count {
	counts := make(map[int]int)
	for _, s := range students {
		counts[s.Age]++
	}
	ages := make([]int, 0, len(counts))
	for age := range counts {
		ages = append(ages, age)
	}
	sort.Ints(ages)
	dist := make([]Count, 0, len(ages))
	for _, age := range ages {
		dist = append(dist, Count{Key: strconv.Itoa(age), Count: counts[age]})
	}
	return dist
}

func groupCount(students []Student, key func(Student) string) []Count {
	counts := make(map[string]int)
	for _, s := range students {
		counts[key(s)]++
	}
	grouped := make([]Count, 0, len(counts))
	for k, n := range counts {
		grouped = append(grouped, Count{Key: k, Count: n})
	}
	sort.Slice(grouped, func(i, j int) bool {
		if grouped[i].Count != grouped[j].Count {
			return grouped[i].Count > grouped[j].Count
		}
		return grouped[i].Key < grouped[j].Key
	})
	return grouped
}

func contains(vals []string, v string) bool {
	for _, val := range vals {
		if val == v {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
