package course

import (
	"math"
	"time"

	"gorm.io/datatypes"
)

// Progress is the single source of truth for a learner's completion of one course.
// TotalLessons is captured at enrollment and never recalculated, so later course
// edits can leave it stale.
type Progress struct {
	ID                  uint                                `json:"id" gorm:"primaryKey"`
	CreatedAt           time.Time                           `json:"createdAt"`
	UpdatedAt           time.Time                           `json:"updatedAt"`
	UserID              uint                                `json:"userId" gorm:"not null;uniqueIndex:idx_progress_user_course"`
	CourseID            uint                                `json:"courseId" gorm:"not null;uniqueIndex:idx_progress_user_course;index"`
	LessonProgress      datatypes.JSONSlice[LessonProgress] `json:"lessonProgress"`
	OverallProgress     int                                 `json:"overallProgress"`
	CompletedLessons    int                                 `json:"completedLessons"`
	TotalLessons        int                                 `json:"totalLessons" gorm:"not null"`
	LastAccessed        time.Time                           `json:"lastAccessed" gorm:"index"`
	CertificateEarned   bool                                `json:"certificateEarned"`
	CertificateIssuedAt *time.Time                          `json:"certificateIssuedAt"`
}

type LessonProgress struct {
	LessonID    string     `json:"lessonId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	TimeSpent   float64    `json:"timeSpent"` // minutes, cumulative
	Score       *float64   `json:"score,omitempty"`
	Attempts    int        `json:"attempts"`
}

// LessonUpdate carries the optional fields of a lesson progress update.
// A nil field is left untouched.
type LessonUpdate struct {
	Completed *bool
	TimeSpent *float64
	Score     *float64
}

// ApplyLessonUpdate records one update for a lesson, recomputes the aggregates and
// reports whether this update is the one that earned the certificate.
func (p *Progress) ApplyLessonUpdate(lessonID string, upd LessonUpdate, now time.Time) bool {
	idx := p.lessonIndex(lessonID)
	if idx < 0 {
		p.LessonProgress = append(p.LessonProgress, LessonProgress{LessonID: lessonID})
		idx = len(p.LessonProgress) - 1
	}
	lp := &p.LessonProgress[idx]

	if upd.Completed != nil {
		switch {
		case *upd.Completed && !lp.Completed:
			stamp := now
			lp.CompletedAt = &stamp
		case !*upd.Completed:
			lp.CompletedAt = nil
		}
		lp.Completed = *upd.Completed
	}
	if upd.TimeSpent != nil {
		lp.TimeSpent += *upd.TimeSpent
	}
	if upd.Score != nil {
		score := *upd.Score
		lp.Score = &score
	}
	lp.Attempts++

	p.Recalculate()

	earned := false
	if p.OverallProgress == 100 && !p.CertificateEarned {
		p.CertificateEarned = true
		issued := now
		p.CertificateIssuedAt = &issued
		earned = true
	}
	p.LastAccessed = now
	return earned
}

// Recalculate derives CompletedLessons and OverallProgress from the lesson entries
func (p *Progress) Recalculate() {
	completed := 0
	for _, lp := range p.LessonProgress {
		if lp.Completed {
			completed++
		}
	}
	p.CompletedLessons = completed
	p.OverallProgress = Percentage(completed, p.TotalLessons)
}

// Percentage rounds completed/total*100 half up, within [0, 100].
// An empty course has no progress to make.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

func (p *Progress) lessonIndex(lessonID string) int {
	for i := range p.LessonProgress {
		if p.LessonProgress[i].LessonID == lessonID {
			return i
		}
	}
	return -1
}
