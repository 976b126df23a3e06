package repository

import (
	"context"
	"edhub/logger"
	courseModels "edhub/models/course"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, progress *courseModels.Progress) error
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*courseModels.Progress, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]*courseModels.Progress, error)
	Save(ctx context.Context, tx *gorm.DB, progress *courseModels.Progress) error
	CountForCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) Create(ctx context.Context, tx *gorm.DB, progress *courseModels.Progress) error {
	if err := pick(r.db, tx).WithContext(ctx).Create(progress).Error; err != nil {
		return duplicateOr(err, "create progress")
	}
	return nil
}

func (r *progressRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*courseModels.Progress, error) {
	var progress courseModels.Progress
	err := pick(r.db, tx).WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		return nil, notFoundOr(err, "get progress")
	}
	return &progress, nil
}

// ListByUser returns the user's progress records, most recently accessed first
func (r *progressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]*courseModels.Progress, error) {
	var rows []*courseModels.Progress
	err := pick(r.db, tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_accessed desc").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list progress")
	}
	return rows, nil
}

// Save writes the whole record; concurrent saves of the same row are last-write-wins
func (r *progressRepo) Save(ctx context.Context, tx *gorm.DB, progress *courseModels.Progress) error {
	if err := pick(r.db, tx).WithContext(ctx).Save(progress).Error; err != nil {
		return errors.Wrap(err, "save progress")
	}
	return nil
}

// CountForCourse returns the number of progress records of one course
func (r *progressRepo) CountForCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int, error) {
	var total int64
	err := pick(r.db, tx).WithContext(ctx).
		Model(&courseModels.Progress{}).
		Where("course_id = ?", courseID).
		Count(&total).Error
	if err != nil {
		return 0, errors.Wrap(err, "count progress for course")
	}
	return int(total), nil
}
