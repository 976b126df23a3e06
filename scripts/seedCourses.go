package main

import (
	"context"
	"edhub/config"
	"edhub/database"
	"edhub/logger"
	"edhub/models"
	courseModels "edhub/models/course"
	"edhub/repository"
	"errors"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedInstructorEmail    = "instructor@edhub.local"
	seedInstructorPassword = "instructor123"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepo(db, logger.Nop())
	courses := repository.NewCourseRepo(db, logger.Nop())

	instructor, err := users.GetByEmail(ctx, nil, seedInstructorEmail)
	if errors.Is(err, repository.ErrNotFound) {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(seedInstructorPassword), cfg.SaltRound)
		if hashErr != nil {
			log.Fatalf("Failed to hash password: %v", hashErr)
		}
		instructor = &models.User{
			Name:     "Jane Instructor",
			Email:    seedInstructorEmail,
			Password: string(hash),
			Role:     models.RoleInstructor,
			Bio:      "Full-stack developer and instructor.",
		}
		err = users.Create(ctx, nil, instructor)
		log.Printf("Created instructor %s", seedInstructorEmail)
	}
	if err != nil {
		log.Fatalf("Failed to load instructor: %v", err)
	}

	inserted := 0
	skipped := 0
	for _, course := range sampleCourses(instructor.ID) {
		// Titles make the seed idempotent
		if _, err := courses.GetByTitle(ctx, nil, course.Title); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatalf("Failed to look up %q: %v", course.Title, err)
		}
		if err := courses.Create(ctx, nil, course); err != nil {
			log.Fatalf("Failed to insert %q: %v", course.Title, err)
		}
		inserted++
	}

	log.Printf("Seed completed: %d inserted, %d skipped", inserted, skipped)
}

func sampleCourses(instructorID uint) []*courseModels.Course {
	return []*courseModels.Course{
		{
			Title:            "Complete Web Development Bootcamp",
			Description:      "Learn HTML, CSS and JavaScript from scratch and build real projects.",
			ShortDescription: "Become a web developer from zero.",
			InstructorID:     instructorID,
			Category:         "web-development",
			Level:            "beginner",
			Language:         "English",
			IsFree:           true,
			Duration:         12,
			Tags:             []string{"html", "css", "javascript"},
			LearningOutcomes: []string{"Build static pages", "Write basic JavaScript"},
			IsPublished:      true,
			Featured:         true,
			Lessons: []courseModels.Lesson{
				{
					ID:          uuid.NewString(),
					Title:       "How the web works",
					Content:     "Browsers, servers and HTTP in a nutshell.",
					Type:        courseModels.LessonVideo,
					Duration:    12,
					Order:       1,
					VideoURL:    "https://www.youtube.com/watch?v=hJHvdBlSxug",
					IsPublished: true,
				},
				{
					ID:          uuid.NewString(),
					Title:       "HTML quiz",
					Content:     "Check what you learned about HTML.",
					Type:        courseModels.LessonQuiz,
					Duration:    5,
					Order:       2,
					IsPublished: true,
					Quiz: &courseModels.Quiz{
						Title: "HTML basics",
						Questions: []courseModels.Question{
							{
								Question:      "Which tag creates a hyperlink?",
								Options:       []string{"<link>", "<a>", "<href>", "<url>"},
								CorrectAnswer: 1,
								Explanation:   "The anchor element <a> defines a hyperlink.",
							},
						},
					},
				},
				{
					ID:             uuid.NewString(),
					Title:          "Your first script",
					Content:        "Print a greeting to the console.",
					Type:           courseModels.LessonCoding,
					Duration:       15,
					Order:          3,
					CodeTemplate:   "// Print Hello, World!\n",
					ExpectedOutput: "Hello, World!",
					Language:       "javascript",
					IsPublished:    true,
				},
			},
		},
		{
			Title:            "Python for Data Science",
			Description:      "Analyse data with Python, pandas and matplotlib.",
			ShortDescription: "Hands-on data analysis with Python.",
			InstructorID:     instructorID,
			Category:         "data-science",
			Level:            "intermediate",
			Language:         "English",
			Price:            49.99,
			Duration:         20,
			Prerequisites:    []string{"Basic programming"},
			Tags:             []string{"python", "pandas"},
			IsPublished:      true,
			Lessons: []courseModels.Lesson{
				{
					ID:          uuid.NewString(),
					Title:       "Working with DataFrames",
					Content:     "Load, filter and aggregate tabular data.",
					Type:        courseModels.LessonText,
					Duration:    20,
					Order:       1,
					IsPublished: true,
				},
				{
					ID:             uuid.NewString(),
					Title:          "Sum a list",
					Content:        "Print the sum of the numbers 1 to 10.",
					Type:           courseModels.LessonCoding,
					Duration:       10,
					Order:          2,
					CodeTemplate:   "numbers = range(1, 11)\n",
					ExpectedOutput: "55",
					Language:       "python",
					IsPublished:    true,
				},
			},
		},
	}
}
