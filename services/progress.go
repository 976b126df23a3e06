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

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LessonUpdateResult is the saved progress and, when this update completed the course,
// the certificate it earned
type LessonUpdateResult struct {
	Progress    *courseModels.Progress `json:"progress"`
	Certificate *models.Certificate    `json:"certificate,omitempty"`
}

type ProgressService interface {
	UpdateLesson(ctx context.Context, userID, courseID uint, lessonID string, upd courseModels.LessonUpdate) (*LessonUpdateResult, error)
	ListProgress(ctx context.Context, userID uint) ([]ProgressView, error)
	GetProgress(ctx context.Context, userID, courseID uint) (*ProgressView, error)
	ListCertificates(ctx context.Context, userID uint) ([]CertificateView, error)
}

type progressService struct {
	db       *gorm.DB
	log      *logger.Logger
	courses  repository.CourseRepo
	users    repository.UserRepo
	progress repository.ProgressRepo
	mailer   utils.Mailer
	now      func() time.Time
}

func NewProgressService(db *gorm.DB, log *logger.Logger, courses repository.CourseRepo, users repository.UserRepo, progress repository.ProgressRepo, mailer utils.Mailer) ProgressService {
	return &progressService{
		db:       db,
		log:      log.With("service", "ProgressService"),
		courses:  courses,
		users:    users,
		progress: progress,
		mailer:   mailer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// UpdateLesson applies one lesson update. The read-modify-write of the progress row is
// not locked, so concurrent updates of the same record are last-write-wins.
func (s *progressService) UpdateLesson(ctx context.Context, userID, courseID uint, lessonID string, upd courseModels.LessonUpdate) (*LessonUpdateResult, error) {
	result := &LessonUpdateResult{}
	var learner *models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress, err := s.progress.GetByUserAndCourse(ctx, tx, userID, courseID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return ErrProgressNotFound
			}
			return err
		}

		if progress.ApplyLessonUpdate(lessonID, upd, s.now()) {
			user, err := s.users.GetByIDForUpdate(ctx, tx, userID)
			if err != nil {
				if stderrors.Is(err, repository.ErrNotFound) {
					return ErrUserNotFound
				}
				return err
			}
			if !user.HasCertificate(courseID) {
				cert := models.Certificate{
					CourseID:          courseID,
					CertificateNumber: uuid.NewString(),
					IssuedAt:          *progress.CertificateIssuedAt,
				}
				user.Certificates = append(user.Certificates, cert)
				if err := s.users.SaveCertificates(ctx, tx, user); err != nil {
					return err
				}
				result.Certificate = &cert
				learner = user
			}
		}

		result.Progress = progress
		return s.progress.Save(ctx, tx, progress)
	})
	if err != nil {
		return nil, err
	}

	if result.Certificate != nil {
		s.log.Info("Certificate issued", "userId", userID, "courseId", courseID, "certificateNumber", result.Certificate.CertificateNumber)
		s.notifyCertificate(ctx, learner, *result.Certificate)
	}
	return result, nil
}

// notifyCertificate mails the learner after the certificate is committed; failures are only logged
func (s *progressService) notifyCertificate(ctx context.Context, user *models.User, cert models.Certificate) {
	title := "your course"
	if course, err := s.courses.GetByID(ctx, nil, cert.CourseID); err == nil {
		title = course.Title
	}
	subject, body := utils.CertificateEmail(user.Name, title, cert.CertificateNumber, cert.IssuedAt)
	if err := s.mailer.Send(ctx, user.Email, user.Name, subject, body); err != nil {
		s.log.Warn("Certificate email failed", "userId", user.ID, "courseId", cert.CourseID, "error", err)
	}
}

// ListProgress returns every progress record of the user, most recently accessed first
func (s *progressService) ListProgress(ctx context.Context, userID uint) ([]ProgressView, error) {
	rows, err := s.progress.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.CourseID)
	}
	courses, err := loadCourses(ctx, s.courses, s.users, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ProgressView, 0, len(rows))
	for _, p := range rows {
		view := ProgressView{Progress: p}
		if c, ok := courses[p.CourseID]; ok {
			view.Course = &CourseRef{ID: c.ID, Title: c.Title, Thumbnail: c.Thumbnail, Instructor: c.Instructor}
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *progressService) GetProgress(ctx context.Context, userID, courseID uint) (*ProgressView, error) {
	progress, err := s.progress.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	view := &ProgressView{Progress: progress}
	course, err := s.courses.GetByID(ctx, nil, courseID)
	switch {
	case err == nil:
		view.Course = &CourseRef{ID: course.ID, Title: course.Title, Lessons: course.SortedLessons()}
	case !stderrors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	return view, nil
}

// ListCertificates resolves each certificate's course; deleted courses resolve to nil
func (s *progressService) ListCertificates(ctx context.Context, userID uint) ([]CertificateView, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	ids := make([]uint, 0, len(user.Certificates))
	for _, c := range user.Certificates {
		ids = append(ids, c.CourseID)
	}
	courses, err := loadCourses(ctx, s.courses, s.users, ids)
	if err != nil {
		return nil, err
	}

	out := make([]CertificateView, 0, len(user.Certificates))
	for _, cert := range user.Certificates {
		view := CertificateView{
			CourseID:          cert.CourseID,
			CertificateNumber: cert.CertificateNumber,
			IssuedAt:          cert.IssuedAt,
		}
		if c, ok := courses[cert.CourseID]; ok {
			view.Course = &CourseRef{ID: c.ID, Title: c.Title, Thumbnail: c.Thumbnail, Instructor: c.Instructor}
		}
		out = append(out, view)
	}
	return out, nil
}
