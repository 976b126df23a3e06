package services

import (
	"context"
	"edhub/logger"
	"edhub/models"
	"edhub/repository"
	stderrors "errors"

	"gorm.io/gorm"
)

type UserStats struct {
	TotalEnrolled      int            `json:"totalEnrolled"`
	CompletedCourses   int            `json:"completedCourses"`
	CertificatesEarned int            `json:"certificatesEarned"`
	CoursesByCategory  map[string]int `json:"coursesByCategory"`
	CoursesByLevel     map[string]int `json:"coursesByLevel"`
}

type UserService interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	Stats(ctx context.Context, userID uint) (*UserStats, error)
	EnrolledCourses(ctx context.Context, userID uint) ([]EnrolledCourse, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	courses  repository.CourseRepo
	users    repository.UserRepo
	progress repository.ProgressRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, courses repository.CourseRepo, users repository.UserRepo, progress repository.ProgressRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		courses:  courses,
		users:    users,
		progress: progress,
	}
}

func (s *userService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Stats aggregates the learner dashboard counters. Category and level breakdowns only
// count enrolled courses that still exist.
func (s *userService) Stats(ctx context.Context, userID uint) (*UserStats, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.progress.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		TotalEnrolled:      len(user.EnrolledCourses),
		CertificatesEarned: len(user.Certificates),
		CoursesByCategory:  map[string]int{},
		CoursesByLevel:     map[string]int{},
	}
	for _, p := range rows {
		if p.CertificateEarned {
			stats.CompletedCourses++
		}
	}

	courses, err := s.courses.GetByIDs(ctx, nil, enrolledIDs(user))
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		stats.CoursesByCategory[c.Category]++
		stats.CoursesByLevel[c.Level]++
	}
	return stats, nil
}

// EnrolledCourses lists the enrollment ledger with course details and current progress
func (s *userService) EnrolledCourses(ctx context.Context, userID uint) ([]EnrolledCourse, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses, err := loadCourses(ctx, s.courses, s.users, enrolledIDs(user))
	if err != nil {
		return nil, err
	}
	rows, err := s.progress.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	pct := make(map[uint]int, len(rows))
	for _, p := range rows {
		pct[p.CourseID] = p.OverallProgress
	}

	out := make([]EnrolledCourse, 0, len(user.EnrolledCourses))
	for _, e := range user.EnrolledCourses {
		item := EnrolledCourse{CourseID: e.CourseID, EnrolledAt: e.EnrolledAt, OverallProgress: pct[e.CourseID]}
		if c, ok := courses[e.CourseID]; ok {
			item.Course = &CourseRef{
				ID:         c.ID,
				Title:      c.Title,
				Thumbnail:  c.Thumbnail,
				Category:   c.Category,
				Level:      c.Level,
				Instructor: c.Instructor,
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func enrolledIDs(user *models.User) []uint {
	ids := make([]uint, 0, len(user.EnrolledCourses))
	for _, e := range user.EnrolledCourses {
		ids = append(ids, e.CourseID)
	}
	return ids
}
