// Package catalog serves the static learning content and manages
// per-user course enrollment on top of the records store.
package catalog

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"neurohub/backend/internal/records"
)

var (
	ErrUnknownCourse = errors.New("unknown course")
	ErrNotEnrolled   = errors.New("not enrolled in course")
	ErrBadProgress   = errors.New("progress must be between 0 and 100")
)

// Enrollments is the slice of the records store the catalog needs.
type Enrollments interface {
	GetUser(ctx context.Context, uid string) (records.UserRecord, error)
	SetEnrollment(ctx context.Context, uid string, enrolled []string, completion map[string]int) error
	SetCourseProgress(ctx context.Context, uid, courseID string, percent int) error
}

type Service struct {
	store Enrollments
}

func NewService(store Enrollments) *Service {
	return &Service{store: store}
}

// CoursePage is one page of filtered results.
type CoursePage struct {
	Courses []Course `json:"courses"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"perPage"`
}

// Courses filters by category (empty or "All" keeps everything),
// searches title and description case-insensitively, then paginates.
// Pages are 1-based.
func (s *Service) Courses(category, search string, page, perPage int) CoursePage {
	matched := make([]Course, 0, len(courses))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, c := range courses {
		if category != "" && category != "All" && c.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Title), needle) &&
			!strings.Contains(strings.ToLower(c.Description), needle) {
			continue
		}
		matched = append(matched, c)
	}

	if perPage <= 0 {
		perPage = len(courses)
	}
	if page <= 0 {
		page = 1
	}
	total := len(matched)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return CoursePage{Courses: matched[start:end], Total: total, Page: page, PerPage: perPage}
}

// Course looks a course up by id.
func (s *Service) Course(id string) (Course, bool) {
	for _, c := range courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

// Categories lists the distinct course categories, sorted.
func (s *Service) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range courses {
		if !seen[c.Category] {
			seen[c.Category] = true
			out = append(out, c.Category)
		}
	}
	sort.Strings(out)
	return out
}

func (s *Service) Articles() []Article { return articles }

func (s *Service) Games() []GameInfo { return gameInfos }

// Enrollment returns the user's enrolled course ids and completion map.
func (s *Service) Enrollment(ctx context.Context, uid string) ([]string, map[string]int, error) {
	rec, err := s.store.GetUser(ctx, uid)
	if err != nil {
		return nil, nil, err
	}
	enrolled := rec.Enrolled
	if enrolled == nil {
		enrolled = []string{}
	}
	completion := rec.Completion
	if completion == nil {
		completion = map[string]int{}
	}
	return enrolled, completion, nil
}

// ToggleEnroll enrolls or unenrolls. Enrolling seeds progress at zero,
// unenrolling discards it. Reports whether the user is enrolled after
// the call.
func (s *Service) ToggleEnroll(ctx context.Context, uid, courseID string) (bool, error) {
	if _, ok := s.Course(courseID); !ok {
		return false, ErrUnknownCourse
	}

	enrolled, completion, err := s.Enrollment(ctx, uid)
	if err != nil {
		return false, err
	}

	idx := -1
	for i, id := range enrolled {
		if id == courseID {
			idx = i
			break
		}
	}
	var nowEnrolled bool
	if idx >= 0 {
		enrolled = append(enrolled[:idx], enrolled[idx+1:]...)
		delete(completion, courseID)
	} else {
		enrolled = append(enrolled, courseID)
		completion[courseID] = 0
		nowEnrolled = true
	}

	if err := s.store.SetEnrollment(ctx, uid, enrolled, completion); err != nil {
		return false, err
	}
	return nowEnrolled, nil
}

// SetProgress records completion percent for an enrolled course.
func (s *Service) SetProgress(ctx context.Context, uid, courseID string, percent int) error {
	if _, ok := s.Course(courseID); !ok {
		return ErrUnknownCourse
	}
	if percent < 0 || percent > 100 {
		return ErrBadProgress
	}

	enrolled, _, err := s.Enrollment(ctx, uid)
	if err != nil {
		return err
	}
	found := false
	for _, id := range enrolled {
		if id == courseID {
			found = true
			break
		}
	}
	if !found {
		return ErrNotEnrolled
	}
	return s.store.SetCourseProgress(ctx, uid, courseID, percent)
}

// AutoEnroll enrolls the first course of the recommended category unless
// the user already holds it. Returns the enrolled course id, empty when
// nothing changed.
func (s *Service) AutoEnroll(ctx context.Context, uid, category string) (string, error) {
	if category == "" || category == "All" {
		return "", nil
	}

	var pick *Course
	for i := range courses {
		if courses[i].Category == category {
			pick = &courses[i]
			break
		}
	}
	if pick == nil {
		return "", nil
	}

	enrolled, completion, err := s.Enrollment(ctx, uid)
	if err != nil {
		return "", err
	}
	for _, id := range enrolled {
		if id == pick.ID {
			return "", nil
		}
	}

	enrolled = append(enrolled, pick.ID)
	completion[pick.ID] = 0
	if err := s.store.SetEnrollment(ctx, uid, enrolled, completion); err != nil {
		return "", err
	}
	log.Printf("[Catalog] Auto-enrolled %s into %s", uid, pick.ID)
	return pick.ID, nil
}
