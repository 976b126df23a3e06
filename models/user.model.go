package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// User owns its enrollment ledger and issued certificates as embedded documents
type User struct {
	ID              uint                             `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time                        `json:"createdAt"`
	UpdatedAt       time.Time                        `json:"updatedAt"`
	Name            string                           `json:"name" gorm:"not null"`
	Email           string                           `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password        string                           `json:"-" gorm:"not null"`
	Role            string                           `json:"role" gorm:"size:20;not null"`
	Avatar          string                           `json:"avatar"`
	Bio             string                           `json:"bio"`
	EnrolledCourses datatypes.JSONSlice[Enrollment]  `json:"enrolledCourses"`
	Certificates    datatypes.JSONSlice[Certificate] `json:"certificates"`
}

// UserSummary is the public projection of a user shown next to courses
type UserSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio,omitempty"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar, Bio: u.Bio}
}

// IsEnrolled scans the enrollment ledger for the course
func (u *User) IsEnrolled(courseID uint) bool {
	for _, e := range u.EnrolledCourses {
		if e.CourseID == courseID {
			return true
		}
	}
	return false
}

func (u *User) HasCertificate(courseID uint) bool {
	for _, c := range u.Certificates {
		if c.CourseID == courseID {
			return true
		}
	}
	return false
}

func (u *User) CanAuthor() bool {
	return u.Role == RoleInstructor || u.Role == RoleAdmin
}
