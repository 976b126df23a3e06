package services

import (
	"context"
	"edhub/logger"
	"edhub/models"
	courseModels "edhub/models/course"
	"edhub/repository"
	stderrors "errors"
	"math"
	"strings"

	"gorm.io/gorm"
)

type ReviewView struct {
	*courseModels.Review
	User *models.UserSummary `json:"user"`
}

type ReviewPage struct {
	Reviews     []ReviewView        `json:"reviews"`
	Rating      courseModels.Rating `json:"rating"`
	Total       int64               `json:"total"`
	TotalPages  int                 `json:"totalPages"`
	CurrentPage int                 `json:"currentPage"`
}

type ReviewService interface {
	Submit(ctx context.Context, userID, courseID uint, rating int, comment string) (*courseModels.Review, bool, error)
	List(ctx context.Context, courseID uint, page, limit int) (*ReviewPage, error)
}

type reviewService struct {
	db      *gorm.DB
	log     *logger.Logger
	courses repository.CourseRepo
	users   repository.UserRepo
	reviews repository.ReviewRepo
}

func NewReviewService(db *gorm.DB, log *logger.Logger, courses repository.CourseRepo, users repository.UserRepo, reviews repository.ReviewRepo) ReviewService {
	return &reviewService{
		db:      db,
		log:     log.With("service", "ReviewService"),
		courses: courses,
		users:   users,
		reviews: reviews,
	}
}

// Submit creates or replaces the learner's review and refreshes the course rating.
// It reports whether a new review was created.
func (s *reviewService) Submit(ctx context.Context, userID, courseID uint, rating int, comment string) (*courseModels.Review, bool, error) {
	var review *courseModels.Review
	created := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.courses.GetByID(ctx, tx, courseID); err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
		user, err := s.users.GetByID(ctx, tx, userID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if !user.IsEnrolled(courseID) {
			return ErrNotEnrolled
		}

		review, err = s.reviews.GetByUserAndCourse(ctx, tx, userID, courseID)
		switch {
		case stderrors.Is(err, repository.ErrNotFound):
			review = &courseModels.Review{UserID: userID, CourseID: courseID}
			created = true
		case err != nil:
			return err
		}
		review.Rating = rating
		review.Comment = strings.TrimSpace(comment)
		if err := s.reviews.Save(ctx, tx, review); err != nil {
			return err
		}

		agg, err := s.reviews.Aggregate(ctx, tx, courseID)
		if err != nil {
			return err
		}
		agg.Average = math.Round(agg.Average*10) / 10
		return s.courses.UpdateRating(ctx, tx, courseID, agg)
	})
	if err != nil {
		return nil, false, err
	}
	return review, created, nil
}

func (s *reviewService) List(ctx context.Context, courseID uint, page, limit int) (*ReviewPage, error) {
	course, err := s.courses.GetByID(ctx, nil, courseID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	page, limit = normalizePage(page, limit)

	rows, total, err := s.reviews.ListByCourse(ctx, nil, courseID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	authors, err := s.users.GetSummaries(ctx, nil, ids)
	if err != nil {
		return nil, err
	}

	out := &ReviewPage{
		Reviews:     make([]ReviewView, 0, len(rows)),
		Rating:      course.Rating,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}
	for _, r := range rows {
		out.Reviews = append(out.Reviews, ReviewView{Review: r, User: authors[r.UserID]})
	}
	return out, nil
}
