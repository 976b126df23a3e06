package course

import "time"

// Review is one learner's rating of a course; a second submission replaces the first
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_review_user_course"`
	CourseID  uint      `json:"courseId" gorm:"not null;uniqueIndex:idx_review_user_course;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"` // 1–5
	Comment   string    `json:"comment" gorm:"type:text"`
}
