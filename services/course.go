package services

import (
	"context"
	"edhub/logger"
	courseModels "edhub/models/course"
	"edhub/repository"
	stderrors "errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = 10000
)

// CatalogQuery holds the catalog filters, already validated at the boundary
type CatalogQuery struct {
	Category  string
	Level     string
	Language  string
	Featured  bool
	Search    string
	Page      int
	Limit     int
	SortBy    string // createdAt, rating or enrollmentCount
	SortOrder string // asc or desc
}

type CatalogPage struct {
	Courses     []courseModels.Summary `json:"courses"`
	Total       int64                  `json:"total"`
	TotalPages  int                    `json:"totalPages"`
	CurrentPage int                    `json:"currentPage"`
}

// CourseInput carries the writable course fields. A nil field is left untouched on update.
type CourseInput struct {
	Title            *string
	Description      *string
	ShortDescription *string
	Category         *string
	Level            *string
	Language         *string
	Thumbnail        *string
	Price            *float64
	IsFree           *bool
	Duration         *float64
	Lessons          *[]courseModels.Lesson
	Prerequisites    *[]string
	LearningOutcomes *[]string
	Tags             *[]string
	IsPublished      *bool
	Featured         *bool
}

type CourseService interface {
	ListCatalog(ctx context.Context, q CatalogQuery) (*CatalogPage, error)
	GetCourse(ctx context.Context, id uint) (*courseModels.Course, error)
	CreateCourse(ctx context.Context, actor Actor, in CourseInput) (*courseModels.Course, error)
	UpdateCourse(ctx context.Context, actor Actor, id uint, in CourseInput) (*courseModels.Course, error)
	DeleteCourse(ctx context.Context, actor Actor, id uint) error
	GetLessons(ctx context.Context, actor Actor, courseID uint) ([]courseModels.Lesson, error)
}

type courseService struct {
	db      *gorm.DB
	log     *logger.Logger
	courses repository.CourseRepo
	users   repository.UserRepo
}

func NewCourseService(db *gorm.DB, log *logger.Logger, courses repository.CourseRepo, users repository.UserRepo) CourseService {
	return &courseService{
		db:      db,
		log:     log.With("service", "CourseService"),
		courses: courses,
		users:   users,
	}
}

func (s *courseService) ListCatalog(ctx context.Context, q CatalogQuery) (*CatalogPage, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	filter := repository.CatalogFilter{
		Category:     q.Category,
		Level:        q.Level,
		Language:     q.Language,
		FeaturedOnly: q.Featured,
		Search:       strings.TrimSpace(q.Search),
		SortColumn:   catalogSortColumn(q.SortBy),
		SortDesc:     !strings.EqualFold(q.SortOrder, "asc"),
		Offset:       (page - 1) * limit,
		Limit:        limit,
	}

	courses, total, err := s.courses.ListPublished(ctx, nil, filter)
	if err != nil {
		return nil, err
	}
	if err := attachInstructors(ctx, s.users, courses...); err != nil {
		return nil, err
	}

	out := &CatalogPage{
		Courses:     make([]courseModels.Summary, 0, len(courses)),
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}
	for _, c := range courses {
		out.Courses = append(out.Courses, c.Summary())
	}
	return out, nil
}

func (s *courseService) GetCourse(ctx context.Context, id uint) (*courseModels.Course, error) {
	course, err := s.getCourse(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := attachInstructors(ctx, s.users, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) CreateCourse(ctx context.Context, actor Actor, in CourseInput) (*courseModels.Course, error) {
	course := &courseModels.Course{InstructorID: actor.UserID}
	applyCourseInput(course, in)
	if in.IsFree == nil {
		course.IsFree = course.Price == 0
	}
	if course.IsFree {
		course.Price = 0
	}

	if err := s.courses.Create(ctx, nil, course); err != nil {
		return nil, err
	}
	s.log.Info("Course created", "courseId", course.ID, "instructorId", actor.UserID)
	return s.GetCourse(ctx, course.ID)
}

func (s *courseService) UpdateCourse(ctx context.Context, actor Actor, id uint, in CourseInput) (*courseModels.Course, error) {
	course, err := s.getCourse(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, course) {
		return nil, ErrForbidden
	}

	applyCourseInput(course, in)
	if course.IsFree {
		course.Price = 0
	}
	if err := s.courses.Update(ctx, nil, course); err != nil {
		return nil, err
	}
	if err := attachInstructors(ctx, s.users, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, actor Actor, id uint) error {
	course, err := s.getCourse(ctx, nil, id)
	if err != nil {
		return err
	}
	if !canManage(actor, course) {
		return ErrForbidden
	}
	if err := s.courses.Delete(ctx, nil, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	s.log.Info("Course deleted", "courseId", id, "by", actor.UserID)
	return nil
}

// GetLessons returns the lessons in display order to enrolled learners only
func (s *courseService) GetLessons(ctx context.Context, actor Actor, courseID uint) ([]courseModels.Lesson, error) {
	course, err := s.getCourse(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, nil, actor.UserID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsEnrolled(courseID) {
		return nil, ErrNotEnrolled
	}
	return course.SortedLessons(), nil
}

func (s *courseService) getCourse(ctx context.Context, tx *gorm.DB, id uint) (*courseModels.Course, error) {
	course, err := s.courses.GetByID(ctx, tx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func canManage(actor Actor, course *courseModels.Course) bool {
	return actor.IsAdmin() || course.InstructorID == actor.UserID
}

func applyCourseInput(c *courseModels.Course, in CourseInput) {
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.ShortDescription != nil {
		c.ShortDescription = strings.TrimSpace(*in.ShortDescription)
	}
	if in.Category != nil {
		c.Category = *in.Category
	}
	if in.Level != nil {
		c.Level = *in.Level
	}
	if in.Language != nil {
		c.Language = strings.TrimSpace(*in.Language)
	}
	if in.Thumbnail != nil {
		c.Thumbnail = *in.Thumbnail
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.IsFree != nil {
		c.IsFree = *in.IsFree
	}
	if in.Duration != nil {
		c.Duration = *in.Duration
	}
	if in.Lessons != nil {
		c.Lessons = prepareLessons(*in.Lessons)
	}
	if in.Prerequisites != nil {
		c.Prerequisites = *in.Prerequisites
	}
	if in.LearningOutcomes != nil {
		c.LearningOutcomes = *in.LearningOutcomes
	}
	if in.Tags != nil {
		c.Tags = *in.Tags
	}
	if in.IsPublished != nil {
		c.IsPublished = *in.IsPublished
	}
	if in.Featured != nil {
		c.Featured = *in.Featured
	}
}

// prepareLessons assigns ids to new lessons and the default language to coding lessons
func prepareLessons(lessons []courseModels.Lesson) []courseModels.Lesson {
	out := make([]courseModels.Lesson, len(lessons))
	for i, l := range lessons {
		if strings.TrimSpace(l.ID) == "" {
			l.ID = uuid.NewString()
		}
		if l.Type == courseModels.LessonCoding && l.Language == "" {
			l.Language = courseModels.DefaultCodeLanguage
		}
		out[i] = l
	}
	return out
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func catalogSortColumn(sortBy string) string {
	switch sortBy {
	case "rating":
		return repository.SortRating
	case "enrollmentCount":
		return repository.SortEnrollmentCount
	default:
		return repository.SortCreatedAt
	}
}
