package repository

import (
	"context"
	"edhub/logger"
	courseModels "edhub/models/course"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Sortable catalog columns
const (
	SortCreatedAt       = "created_at"
	SortRating          = "rating_average"
	SortEnrollmentCount = "enrollment_count"
)

// CatalogFilter narrows the published catalog. Empty fields are not applied.
type CatalogFilter struct {
	Category     string
	Level        string
	Language     string
	FeaturedOnly bool
	Search       string
	SortColumn   string
	SortDesc     bool
	Offset       int
	Limit        int
}

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, course *courseModels.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*courseModels.Course, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*courseModels.Course, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) (map[uint]*courseModels.Course, error)
	GetByTitle(ctx context.Context, tx *gorm.DB, title string) (*courseModels.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *courseModels.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListPublished(ctx context.Context, tx *gorm.DB, filter CatalogFilter) ([]*courseModels.Course, int64, error)
	IncrementEnrollmentCount(ctx context.Context, tx *gorm.DB, id uint) error
	SetEnrollmentCount(ctx context.Context, tx *gorm.DB, id uint, count int) error
	UpdateRating(ctx context.Context, tx *gorm.DB, id uint, rating courseModels.Rating) error
	ListIDs(ctx context.Context, tx *gorm.DB) ([]uint, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, course *courseModels.Course) error {
	if err := pick(r.db, tx).WithContext(ctx).Create(course).Error; err != nil {
		return errors.Wrap(err, "create course")
	}
	return nil
}

func (r *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := pick(r.db, tx).WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, notFoundOr(err, "get course")
	}
	return &course, nil
}

// GetByIDs loads the courses that still exist among ids, keyed by id
// GetByIDForUpdate reads the course holding a row lock until tx ends; enrollments bumping
// the counter wait for it
func (r *courseRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := forUpdate(pick(r.db, tx).WithContext(ctx)).First(&course, id).Error; err != nil {
		return nil, notFoundOr(err, "get course for update")
	}
	return &course, nil
}

func (r *courseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) (map[uint]*courseModels.Course, error) {
	out := make(map[uint]*courseModels.Course, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*courseModels.Course
	if err := pick(r.db, tx).WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "get courses")
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

func (r *courseRepo) GetByTitle(ctx context.Context, tx *gorm.DB, title string) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := pick(r.db, tx).WithContext(ctx).Where("title = ?", title).First(&course).Error; err != nil {
		return nil, notFoundOr(err, "get course by title")
	}
	return &course, nil
}

func (r *courseRepo) Update(ctx context.Context, tx *gorm.DB, course *courseModels.Course) error {
	if err := pick(r.db, tx).WithContext(ctx).Save(course).Error; err != nil {
		return errors.Wrap(err, "update course")
	}
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	res := pick(r.db, tx).WithContext(ctx).Delete(&courseModels.Course{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete course")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPublished returns one page of published courses without lesson bodies and the total match count
func (r *courseRepo) ListPublished(ctx context.Context, tx *gorm.DB, filter CatalogFilter) ([]*courseModels.Course, int64, error) {
	db := pick(r.db, tx).WithContext(ctx)
	query := db.Model(&courseModels.Course{}).Where("is_published = ?", true)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR "+tagMatch(db.Dialector.Name()),
			pattern, pattern, pattern,
		)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count courses")
	}

	order := sortColumn(filter.SortColumn)
	if filter.SortDesc {
		order += " desc"
	} else {
		order += " asc"
	}

	var courses []*courseModels.Course
	err := query.
		Omit("lessons").
		Order(order).
		Order("id desc").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list courses")
	}
	return courses, total, nil
}

func (r *courseRepo) IncrementEnrollmentCount(ctx context.Context, tx *gorm.DB, id uint) error {
	err := pick(r.db, tx).WithContext(ctx).
		Model(&courseModels.Course{}).
		Where("id = ?", id).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + ?", 1)).Error
	return errors.Wrap(err, "increment enrollment count")
}

func (r *courseRepo) UpdateRating(ctx context.Context, tx *gorm.DB, id uint, rating courseModels.Rating) error {
	err := pick(r.db, tx).WithContext(ctx).
		Model(&courseModels.Course{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating_average": rating.Average,
			"rating_count":   rating.Count,
		}).Error
	return errors.Wrap(err, "update course rating")
}

func (r *courseRepo) SetEnrollmentCount(ctx context.Context, tx *gorm.DB, id uint, count int) error {
	err := pick(r.db, tx).WithContext(ctx).
		Model(&courseModels.Course{}).
		Where("id = ?", id).
		UpdateColumn("enrollment_count", count).Error
	return errors.Wrap(err, "set enrollment count")
}

// ListIDs returns the IDs of every course, published or not
func (r *courseRepo) ListIDs(ctx context.Context, tx *gorm.DB) ([]uint, error) {
	var ids []uint
	err := pick(r.db, tx).WithContext(ctx).
		Model(&courseModels.Course{}).
		Order("id").
		Pluck("id", &ids).Error
	return ids, errors.Wrap(err, "list course ids")
}

// tagMatch is a predicate taking one LIKE pattern that matches any single element of the
// tags JSON array, never the JSON text itself
func tagMatch(dialect string) string {
	switch dialect {
	case "postgres":
		return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(" +
			"CASE WHEN jsonb_typeof(courses.tags::jsonb) = 'array' THEN courses.tags::jsonb ELSE '[]'::jsonb END" +
			") AS t(tag) WHERE LOWER(t.tag) LIKE ? ESCAPE '!')"
	case "mysql":
		return "EXISTS (SELECT 1 FROM JSON_TABLE(courses.tags, '$[*]' COLUMNS (tag VARCHAR(255) PATH '$')) AS t " +
			"WHERE LOWER(t.tag) LIKE ? ESCAPE '!')"
	default:
		return "EXISTS (SELECT 1 FROM json_each(courses.tags) AS t " +
			"WHERE t.type = 'text' AND LOWER(t.value) LIKE ? ESCAPE '!')"
	}
}

func sortColumn(col string) string {
	switch col {
	case SortRating, SortEnrollmentCount, SortCreatedAt:
		return col
	default:
		return SortCreatedAt
	}
}

// escapeLike neutralises LIKE wildcards using '!' as the escape character
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
