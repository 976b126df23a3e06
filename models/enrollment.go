package models

import "time"

// Enrollment is an entry of the user's enrollment ledger
type Enrollment struct {
	CourseID   uint      `json:"courseId"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// Certificate is issued once per course when the learner's progress reaches 100%
type Certificate struct {
	CourseID          uint      `json:"courseId"`
	CertificateNumber string    `json:"certificateNumber"`
	IssuedAt          time.Time `json:"issuedAt"`
}
