package course

import (
	"edhub/models"
	"sort"
	"time"

	"gorm.io/datatypes"
)

var Categories = []string{
	"web-development", "mobile-development", "data-science", "machine-learning",
	"cybersecurity", "devops", "blockchain", "other",
}

var Levels = []string{"beginner", "intermediate", "advanced"}

const (
	LessonVideo    = "video"
	LessonText     = "text"
	LessonCoding   = "coding"
	LessonQuiz     = "quiz"
	LessonPlaylist = "playlist"
)

var LessonTypes = []string{LessonVideo, LessonText, LessonCoding, LessonQuiz, LessonPlaylist}

var CodeLanguages = []string{"javascript", "python", "java", "cpp", "html", "css", "c"}

const DefaultCodeLanguage = "javascript"

// Course is the catalog aggregate. Lessons have no lifecycle outside of it.
type Course struct {
	ID               uint                        `json:"id" gorm:"primaryKey"`
	CreatedAt        time.Time                   `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
	Title            string                      `json:"title" gorm:"not null"`
	Description      string                      `json:"description" gorm:"type:text;not null"`
	ShortDescription string                      `json:"shortDescription" gorm:"size:200"`
	InstructorID     uint                        `json:"instructorId" gorm:"index;not null"`
	Instructor       *models.UserSummary         `json:"instructor,omitempty" gorm:"-"`
	Category         string                      `json:"category" gorm:"size:50;index;not null"`
	Level            string                      `json:"level" gorm:"size:20;index;not null"`
	Language         string                      `json:"language" gorm:"size:50;not null"`
	Thumbnail        string                      `json:"thumbnail"`
	Price            float64                     `json:"price"`
	IsFree           bool                        `json:"isFree"`
	Duration         float64                     `json:"duration"` // hours
	Lessons          datatypes.JSONSlice[Lesson] `json:"lessons"`
	Prerequisites    datatypes.JSONSlice[string] `json:"prerequisites"`
	LearningOutcomes datatypes.JSONSlice[string] `json:"learningOutcomes"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	Rating           Rating                      `json:"rating" gorm:"embedded;embeddedPrefix:rating_"`
	EnrollmentCount  int                         `json:"enrollmentCount"`
	IsPublished      bool                        `json:"isPublished" gorm:"index"`
	Featured         bool                        `json:"featured"`
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Lesson is embedded in Course and addressed by its ID
type Lesson struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Content        string  `json:"content"`
	Type           string  `json:"type"`
	Duration       float64 `json:"duration"` // minutes
	Order          int     `json:"order"`
	VideoURL       string  `json:"videoUrl,omitempty"`
	PlaylistURL    string  `json:"playlistUrl,omitempty"`
	CodeTemplate   string  `json:"codeTemplate,omitempty"`
	ExpectedOutput string  `json:"expectedOutput,omitempty"`
	Language       string  `json:"language,omitempty"`
	Quiz           *Quiz   `json:"quiz,omitempty"`
	IsPublished    bool    `json:"isPublished"`
}

type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Summary is the catalog view of a course: everything except lesson bodies
type Summary struct {
	ID               uint                `json:"id"`
	CreatedAt        time.Time           `json:"createdAt"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	ShortDescription string              `json:"shortDescription"`
	InstructorID     uint                `json:"instructorId"`
	Instructor       *models.UserSummary `json:"instructor,omitempty"`
	Category         string              `json:"category"`
	Level            string              `json:"level"`
	Language         string              `json:"language"`
	Thumbnail        string              `json:"thumbnail"`
	Price            float64             `json:"price"`
	IsFree           bool                `json:"isFree"`
	Duration         float64             `json:"duration"`
	Tags             []string            `json:"tags"`
	Rating           Rating              `json:"rating"`
	EnrollmentCount  int                 `json:"enrollmentCount"`
	Featured         bool                `json:"featured"`
}

func (c *Course) Summary() Summary {
	return Summary{
		ID:               c.ID,
		CreatedAt:        c.CreatedAt,
		Title:            c.Title,
		Description:      c.Description,
		ShortDescription: c.ShortDescription,
		InstructorID:     c.InstructorID,
		Instructor:       c.Instructor,
		Category:         c.Category,
		Level:            c.Level,
		Language:         c.Language,
		Thumbnail:        c.Thumbnail,
		Price:            c.Price,
		IsFree:           c.IsFree,
		Duration:         c.Duration,
		Tags:             c.Tags,
		Rating:           c.Rating,
		EnrollmentCount:  c.EnrollmentCount,
		Featured:         c.Featured,
	}
}

func (c *Course) FindLesson(lessonID string) (Lesson, bool) {
	for _, l := range c.Lessons {
		if l.ID == lessonID {
			return l, true
		}
	}
	return Lesson{}, false
}

// SortedLessons returns the lessons in display order
func (c *Course) SortedLessons() []Lesson {
	out := make([]Lesson, len(c.Lessons))
	copy(out, c.Lessons)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
