package services

import "errors"

var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrProgressNotFound    = errors.New("progress not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrAlreadyEnrolled     = errors.New("already enrolled in this course")
	ErrForbidden           = errors.New("not allowed to modify this course")
	ErrNotEnrolled         = errors.New("not enrolled in this course")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrNotCodingLesson     = errors.New("lesson is not a coding lesson")
	ErrNotQuizLesson       = errors.New("lesson is not a quiz")
	ErrUnsupportedLanguage = errors.New("lesson language cannot be executed")
	ErrRunnerUnavailable   = errors.New("code runner is not configured")
	ErrRunnerFailed        = errors.New("code runner failed")
)
