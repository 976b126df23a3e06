package services

import (
	"context"
	"edhub/models"
	courseModels "edhub/models/course"
	"edhub/repository"
	"time"
)

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// CourseRef is the projection of a course embedded in other resources
type CourseRef struct {
	ID         uint                  `json:"id"`
	Title      string                `json:"title"`
	Thumbnail  string                `json:"thumbnail,omitempty"`
	Category   string                `json:"category,omitempty"`
	Level      string                `json:"level,omitempty"`
	Instructor *models.UserSummary   `json:"instructor,omitempty"`
	Lessons    []courseModels.Lesson `json:"lessons,omitempty"`
}

type ProgressView struct {
	*courseModels.Progress
	Course *CourseRef `json:"course"`
}

type CertificateView struct {
	CourseID          uint       `json:"courseId"`
	CertificateNumber string     `json:"certificateNumber"`
	IssuedAt          time.Time  `json:"issuedAt"`
	Course            *CourseRef `json:"course"`
}

type EnrolledCourse struct {
	CourseID        uint       `json:"courseId"`
	EnrolledAt      time.Time  `json:"enrolledAt"`
	OverallProgress int        `json:"overallProgress"`
	Course          *CourseRef `json:"course"`
}

// attachInstructors resolves the instructor summary of every course in one query
func attachInstructors(ctx context.Context, users repository.UserRepo, courses ...*courseModels.Course) error {
	ids := make([]uint, 0, len(courses))
	seen := make(map[uint]struct{}, len(courses))
	for _, c := range courses {
		if c == nil {
			continue
		}
		if _, ok := seen[c.InstructorID]; !ok {
			seen[c.InstructorID] = struct{}{}
			ids = append(ids, c.InstructorID)
		}
	}
	summaries, err := users.GetSummaries(ctx, nil, ids)
	if err != nil {
		return err
	}
	for _, c := range courses {
		if c != nil {
			c.Instructor = summaries[c.InstructorID]
		}
	}
	return nil
}

// loadCourses fetches the courses by id with their instructors; deleted courses are absent
func loadCourses(ctx context.Context, courses repository.CourseRepo, users repository.UserRepo, ids []uint) (map[uint]*courseModels.Course, error) {
	byID, err := courses.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	list := make([]*courseModels.Course, 0, len(byID))
	for _, c := range byID {
		list = append(list, c)
	}
	if err := attachInstructors(ctx, users, list...); err != nil {
		return nil, err
	}
	return byID, nil
}
