package services

import (
	"context"
	"edhub/logger"
	"edhub/models"
	courseModels "edhub/models/course"
	"edhub/repository"
	"edhub/utils"
	stderrors "errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uint) (*courseModels.Progress, error)
}

type enrollmentService struct {
	db       *gorm.DB
	log      *logger.Logger
	courses  repository.CourseRepo
	users    repository.UserRepo
	progress repository.ProgressRepo
	mailer   utils.Mailer
	now      func() time.Time
}

func NewEnrollmentService(db *gorm.DB, log *logger.Logger, courses repository.CourseRepo, users repository.UserRepo, progress repository.ProgressRepo, mailer utils.Mailer) EnrollmentService {
	return &enrollmentService{
		db:       db,
		log:      log.With("service", "EnrollmentService"),
		courses:  courses,
		users:    users,
		progress: progress,
		mailer:   mailer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Enroll appends the course to the user's ledger, opens a progress record and bumps the
// course's enrollment count, all or nothing.
func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*courseModels.Progress, error) {
	var (
		progress *courseModels.Progress
		learner  *models.User
		title    string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.courses.GetByID(ctx, tx, courseID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
		user, err := s.users.GetByIDForUpdate(ctx, tx, userID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.IsEnrolled(courseID) {
			return ErrAlreadyEnrolled
		}
		learner, title = user, course.Title

		now := s.now()
		user.EnrolledCourses = append(user.EnrolledCourses, models.Enrollment{CourseID: courseID, EnrolledAt: now})
		if err := s.users.SaveEnrollments(ctx, tx, user); err != nil {
			return err
		}

		progress = &courseModels.Progress{
			UserID:         userID,
			CourseID:       courseID,
			LessonProgress: datatypes.JSONSlice[courseModels.LessonProgress]{},
			TotalLessons:   len(course.Lessons),
			LastAccessed:   now,
		}
		if err := s.progress.Create(ctx, tx, progress); err != nil {
			if stderrors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyEnrolled
			}
			return err
		}
		return s.courses.IncrementEnrollmentCount(ctx, tx, courseID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("User enrolled", "userId", userID, "courseId", courseID)

	subject, body := utils.EnrollmentEmail(learner.Name, title)
	if err := s.mailer.Send(ctx, learner.Email, learner.Name, subject, body); err != nil {
		s.log.Warn("Enrollment email failed", "userId", userID, "courseId", courseID, "error", err)
	}
	return progress, nil
}
