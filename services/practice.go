package services

import (
	"context"
	"edhub/logger"
	courseModels "edhub/models/course"
	"edhub/repository"
	"edhub/utils"
	stderrors "errors"
	"strings"
)

type RunOutcome struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
	Passed   bool   `json:"passed"`
}

type QuestionResult struct {
	Question      string `json:"question"`
	Selected      int    `json:"selected"`
	CorrectAnswer int    `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation,omitempty"`
}

type QuizResult struct {
	Score   int              `json:"score"`
	Correct int              `json:"correct"`
	Total   int              `json:"total"`
	Results []QuestionResult `json:"results"`
}

// PracticeService runs coding exercises and grades quizzes. Neither touches progress;
// the client reports outcomes through the progress endpoint.
type PracticeService interface {
	RunCode(ctx context.Context, userID, courseID uint, lessonID, code, stdin string) (*RunOutcome, error)
	GradeQuiz(ctx context.Context, userID, courseID uint, lessonID string, answers []int) (*QuizResult, error)
}

type practiceService struct {
	log     *logger.Logger
	courses repository.CourseRepo
	users   repository.UserRepo
	runner  utils.CodeRunner
}

func NewPracticeService(log *logger.Logger, courses repository.CourseRepo, users repository.UserRepo, runner utils.CodeRunner) PracticeService {
	return &practiceService{
		log:     log.With("service", "PracticeService"),
		courses: courses,
		users:   users,
		runner:  runner,
	}
}

func (s *practiceService) RunCode(ctx context.Context, userID, courseID uint, lessonID, code, stdin string) (*RunOutcome, error) {
	lesson, err := s.enrolledLesson(ctx, userID, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.Type != courseModels.LessonCoding {
		return nil, ErrNotCodingLesson
	}
	language := lesson.Language
	if language == "" {
		language = courseModels.DefaultCodeLanguage
	}

	res, err := s.runner.Run(ctx, language, code, stdin)
	switch {
	case stderrors.Is(err, utils.ErrRunnerNotConfigured):
		return nil, ErrRunnerUnavailable
	case stderrors.Is(err, utils.ErrUnsupportedLanguage):
		return nil, ErrUnsupportedLanguage
	case err != nil:
		s.log.Error("Code run failed", "courseId", courseID, "lessonId", lessonID, "error", err)
		return nil, ErrRunnerFailed
	}

	return &RunOutcome{
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
		Passed:   outputMatches(res.Stdout, lesson.ExpectedOutput) && res.ExitCode == 0,
	}, nil
}

// GradeQuiz scores the answers by position. Missing answers count as wrong.
func (s *practiceService) GradeQuiz(ctx context.Context, userID, courseID uint, lessonID string, answers []int) (*QuizResult, error) {
	lesson, err := s.enrolledLesson(ctx, userID, courseID, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.Type != courseModels.LessonQuiz || lesson.Quiz == nil {
		return nil, ErrNotQuizLesson
	}

	questions := lesson.Quiz.Questions
	result := &QuizResult{Total: len(questions), Results: make([]QuestionResult, 0, len(questions))}
	for i, q := range questions {
		selected := -1
		if i < len(answers) {
			selected = answers[i]
		}
		correct := selected == q.CorrectAnswer
		if correct {
			result.Correct++
		}
		result.Results = append(result.Results, QuestionResult{
			Question:      q.Question,
			Selected:      selected,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       correct,
			Explanation:   q.Explanation,
		})
	}
	result.Score = courseModels.Percentage(result.Correct, result.Total)
	return result, nil
}

func (s *practiceService) enrolledLesson(ctx context.Context, userID, courseID uint, lessonID string) (courseModels.Lesson, error) {
	course, err := s.courses.GetByID(ctx, nil, courseID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return courseModels.Lesson{}, ErrCourseNotFound
		}
		return courseModels.Lesson{}, err
	}
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return courseModels.Lesson{}, ErrUserNotFound
		}
		return courseModels.Lesson{}, err
	}
	if !user.IsEnrolled(courseID) {
		return courseModels.Lesson{}, ErrNotEnrolled
	}
	lesson, ok := course.FindLesson(lessonID)
	if !ok {
		return courseModels.Lesson{}, ErrLessonNotFound
	}
	return lesson, nil
}

// outputMatches compares program output with the expected output, ignoring surrounding
// whitespace and line ending style. A lesson without expected output always passes.
func outputMatches(stdout, expected string) bool {
	if strings.TrimSpace(expected) == "" {
		return true
	}
	norm := strings.NewReplacer("\r\n", "\n")
	return strings.TrimSpace(norm.Replace(stdout)) == strings.TrimSpace(norm.Replace(expected))
}
