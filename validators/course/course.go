package courseValidator

import (
	"edhub/middleware"
	courseModels "edhub/models/course"
	"edhub/services"
	"edhub/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type QuestionRequest struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer int      `json:"correctAnswer" validate:"gte=0,correct_option"`
	Explanation   string   `json:"explanation"`
}

type QuizRequest struct {
	Title     string            `json:"title"`
	Questions []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

type LessonRequest struct {
	ID             string       `json:"id"`
	Title          string       `json:"title" validate:"required,max=200"`
	Content        string       `json:"content" validate:"required"`
	Type           string       `json:"type" validate:"required,lesson_type"`
	Duration       float64      `json:"duration" validate:"gte=0"`
	Order          int          `json:"order" validate:"gte=0"`
	VideoURL       string       `json:"videoUrl" validate:"omitempty,url"`
	PlaylistURL    string       `json:"playlistUrl" validate:"omitempty,url"`
	CodeTemplate   string       `json:"codeTemplate"`
	ExpectedOutput string       `json:"expectedOutput"`
	Language       string       `json:"language" validate:"omitempty,code_language"`
	Quiz           *QuizRequest `json:"quiz" validate:"required_if=Type quiz"`
	IsPublished    *bool        `json:"isPublished"`
}

// CreateCourseRequest is the body of POST /api/courses
type CreateCourseRequest struct {
	Title            *string         `json:"title" validate:"required,min=5,max=200"`
	Description      *string         `json:"description" validate:"required,min=20"`
	ShortDescription *string         `json:"shortDescription" validate:"omitempty,max=200"`
	Category         *string         `json:"category" validate:"required,category"`
	Level            *string         `json:"level" validate:"required,level"`
	Language         *string         `json:"language" validate:"required,min=1"`
	Thumbnail        *string         `json:"thumbnail"`
	Price            *float64        `json:"price" validate:"omitempty,gte=0"`
	IsFree           *bool           `json:"isFree"`
	Duration         *float64        `json:"duration" validate:"omitempty,gte=0"`
	Lessons          []LessonRequest `json:"lessons" validate:"omitempty,dive"`
	Prerequisites    []string        `json:"prerequisites"`
	LearningOutcomes []string        `json:"learningOutcomes"`
	Tags             []string        `json:"tags" validate:"omitempty,dive,max=50"`
	IsPublished      *bool           `json:"isPublished"`
	Featured         *bool           `json:"featured"`
}

// UpdateCourseRequest is the body of PUT /api/courses/:id; absent fields are kept
type UpdateCourseRequest struct {
	Title            *string          `json:"title" validate:"omitempty,min=5,max=200"`
	Description      *string          `json:"description" validate:"omitempty,min=20"`
	ShortDescription *string          `json:"shortDescription" validate:"omitempty,max=200"`
	Category         *string          `json:"category" validate:"omitempty,category"`
	Level            *string          `json:"level" validate:"omitempty,level"`
	Language         *string          `json:"language" validate:"omitempty,min=1"`
	Thumbnail        *string          `json:"thumbnail"`
	Price            *float64         `json:"price" validate:"omitempty,gte=0"`
	IsFree           *bool            `json:"isFree"`
	Duration         *float64         `json:"duration" validate:"omitempty,gte=0"`
	Lessons          *[]LessonRequest `json:"lessons" validate:"omitempty,dive"`
	Prerequisites    *[]string        `json:"prerequisites"`
	LearningOutcomes *[]string        `json:"learningOutcomes"`
	Tags             *[]string        `json:"tags" validate:"omitempty,dive,max=50"`
	IsPublished      *bool            `json:"isPublished"`
	Featured         *bool            `json:"featured"`
}

type catalogRequest struct {
	Category  string `query:"category"`
	Level     string `query:"level"`
	Language  string `query:"language"`
	Featured  string `query:"featured"`
	Search    string `query:"search" validate:"max=100"`
	Page      int    `query:"page" validate:"gte=0,lte=10000"`
	Limit     int    `query:"limit" validate:"gte=0"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ListCourses validates the catalog query string
func ListCourses() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(catalogRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if errs := validators.Struct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("catalogQuery", services.CatalogQuery{
			Category:  strings.TrimSpace(reqData.Category),
			Level:     strings.TrimSpace(reqData.Level),
			Language:  strings.TrimSpace(reqData.Language),
			Featured:  reqData.Featured == "true",
			Search:    reqData.Search,
			Page:      reqData.Page,
			Limit:     reqData.Limit,
			SortBy:    reqData.SortBy,
			SortOrder: reqData.SortOrder,
		})
		return c.Next()
	}
}

// CreateCourse validates the new course body
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}

		in := services.CourseInput{
			Title:            reqData.Title,
			Description:      reqData.Description,
			ShortDescription: reqData.ShortDescription,
			Category:         reqData.Category,
			Level:            reqData.Level,
			Language:         reqData.Language,
			Thumbnail:        reqData.Thumbnail,
			Price:            reqData.Price,
			IsFree:           reqData.IsFree,
			Duration:         reqData.Duration,
			IsPublished:      reqData.IsPublished,
			Featured:         reqData.Featured,
		}
		lessons := toLessons(reqData.Lessons)
		in.Lessons = &lessons
		in.Prerequisites = nonNil(reqData.Prerequisites)
		in.LearningOutcomes = nonNil(reqData.LearningOutcomes)
		in.Tags = nonNil(reqData.Tags)

		c.Locals("courseInput", in)
		return c.Next()
	}
}

// UpdateCourse validates a partial course update
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}

		in := services.CourseInput{
			Title:            reqData.Title,
			Description:      reqData.Description,
			ShortDescription: reqData.ShortDescription,
			Category:         reqData.Category,
			Level:            reqData.Level,
			Language:         reqData.Language,
			Thumbnail:        reqData.Thumbnail,
			Price:            reqData.Price,
			IsFree:           reqData.IsFree,
			Duration:         reqData.Duration,
			Prerequisites:    reqData.Prerequisites,
			LearningOutcomes: reqData.LearningOutcomes,
			Tags:             reqData.Tags,
			IsPublished:      reqData.IsPublished,
			Featured:         reqData.Featured,
		}
		if reqData.Lessons != nil {
			lessons := toLessons(*reqData.Lessons)
			in.Lessons = &lessons
		}

		c.Locals("courseInput", in)
		return c.Next()
	}
}

type RunCodeRequest struct {
	Code  string `json:"code" validate:"required,max=65536"`
	Stdin string `json:"stdin" validate:"max=65536"`
}

type quizAnswersRequest struct {
	Answers []int `json:"answers" validate:"required,dive,gte=-1"`
}

// RunCode validates a code execution request
func RunCode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.TrimSpace(c.Params("lessonId")) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}
		reqData := new(RunCodeRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("runCode", reqData)
		return c.Next()
	}
}

// SubmitQuiz validates quiz answers; -1 marks an unanswered question
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.TrimSpace(c.Params("lessonId")) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}
		reqData := new(quizAnswersRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("quizAnswers", reqData.Answers)
		return c.Next()
	}
}

func toLessons(in []LessonRequest) []courseModels.Lesson {
	out := make([]courseModels.Lesson, 0, len(in))
	for _, l := range in {
		lesson := courseModels.Lesson{
			ID:             strings.TrimSpace(l.ID),
			Title:          strings.TrimSpace(l.Title),
			Content:        l.Content,
			Type:           l.Type,
			Duration:       l.Duration,
			Order:          l.Order,
			VideoURL:       l.VideoURL,
			PlaylistURL:    l.PlaylistURL,
			CodeTemplate:   l.CodeTemplate,
			ExpectedOutput: l.ExpectedOutput,
			Language:       l.Language,
			IsPublished:    true,
		}
		if l.IsPublished != nil {
			lesson.IsPublished = *l.IsPublished
		}
		if l.Quiz != nil {
			quiz := &courseModels.Quiz{Title: l.Quiz.Title}
			for _, q := range l.Quiz.Questions {
				quiz.Questions = append(quiz.Questions, courseModels.Question{
					Question:      q.Question,
					Options:       q.Options,
					CorrectAnswer: q.CorrectAnswer,
					Explanation:   q.Explanation,
				})
			}
			lesson.Quiz = quiz
		}
		out = append(out, lesson)
	}
	return out
}

func nonNil(s []string) *[]string {
	if s == nil {
		s = []string{}
	}
	return &s
}
