package repository

import (
	"context"
	"edhub/logger"
	"edhub/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	GetSummaries(ctx context.Context, tx *gorm.DB, ids []uint) (map[uint]*models.UserSummary, error)
	SaveEnrollments(ctx context.Context, tx *gorm.DB, user *models.User) error
	SaveCertificates(ctx context.Context, tx *gorm.DB, user *models.User) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if err := pick(r.db, tx).WithContext(ctx).Create(user).Error; err != nil {
		return duplicateOr(err, "create user")
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := pick(r.db, tx).WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "get user")
	}
	return &user, nil
}

// GetByIDForUpdate reads the user holding a row lock until tx ends, so appends to the
// embedded enrollment and certificate lists are serialised per user
func (r *userRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := forUpdate(pick(r.db, tx).WithContext(ctx)).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "get user for update")
	}
	return &user, nil
}

// forUpdate adds SELECT ... FOR UPDATE; the sqlite dialect drops it, its writers are already serialised
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := pick(r.db, tx).WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "get user by email")
	}
	return &user, nil
}

// GetSummaries resolves the public profile of each user id; unknown ids are absent from the map
func (r *userRepo) GetSummaries(ctx context.Context, tx *gorm.DB, ids []uint) (map[uint]*models.UserSummary, error) {
	out := make(map[uint]*models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.UserSummary
	err := pick(r.db, tx).WithContext(ctx).
		Model(&models.User{}).
		Select("id", "name", "avatar", "bio").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "get user summaries")
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func (r *userRepo) SaveEnrollments(ctx context.Context, tx *gorm.DB, user *models.User) error {
	err := pick(r.db, tx).WithContext(ctx).
		Model(user).
		Select("enrolled_courses").
		Updates(user).Error
	return errors.Wrap(err, "save enrollments")
}

func (r *userRepo) SaveCertificates(ctx context.Context, tx *gorm.DB, user *models.User) error {
	err := pick(r.db, tx).WithContext(ctx).
		Model(user).
		Select("certificates").
		Updates(user).Error
	return errors.Wrap(err, "save certificates")
}
