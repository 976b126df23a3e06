package repository

import (
	"context"
	"edhub/logger"
	courseModels "edhub/models/course"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ReviewRepo interface {
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*courseModels.Review, error)
	Save(ctx context.Context, tx *gorm.DB, review *courseModels.Review) error
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint, offset, limit int) ([]*courseModels.Review, int64, error)
	Aggregate(ctx context.Context, tx *gorm.DB, courseID uint) (courseModels.Rating, error)
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return &reviewRepo{db: db, log: baseLog.With("repo", "ReviewRepo")}
}

func (r *reviewRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*courseModels.Review, error) {
	var review courseModels.Review
	err := pick(r.db, tx).WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&review).Error
	if err != nil {
		return nil, notFoundOr(err, "get review")
	}
	return &review, nil
}

// Save inserts a new review or overwrites an existing one
func (r *reviewRepo) Save(ctx context.Context, tx *gorm.DB, review *courseModels.Review) error {
	if err := pick(r.db, tx).WithContext(ctx).Save(review).Error; err != nil {
		return duplicateOr(err, "save review")
	}
	return nil
}

// ListByCourse returns one page of a course's reviews, newest first, and the total count
func (r *reviewRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint, offset, limit int) ([]*courseModels.Review, int64, error) {
	query := pick(r.db, tx).WithContext(ctx).
		Model(&courseModels.Review{}).
		Where("course_id = ?", courseID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count reviews")
	}

	var rows []*courseModels.Review
	err := query.
		Order("created_at desc").
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list reviews")
	}
	return rows, total, nil
}

// Aggregate computes the average and count of a course's ratings; no reviews yields zeros
func (r *reviewRepo) Aggregate(ctx context.Context, tx *gorm.DB, courseID uint) (courseModels.Rating, error) {
	var agg struct {
		Average float64
		Count   int
	}
	err := pick(r.db, tx).WithContext(ctx).
		Model(&courseModels.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("course_id = ?", courseID).
		Scan(&agg).Error
	if err != nil {
		return courseModels.Rating{}, errors.Wrap(err, "aggregate ratings")
	}
	return courseModels.Rating{Average: agg.Average, Count: agg.Count}, nil
}
