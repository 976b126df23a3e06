package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func TestApplyLessonUpdateThreeLessonCourse(t *testing.T) {
	p := &Progress{TotalLessons: 3}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.False(t, p.ApplyLessonUpdate("A", LessonUpdate{Completed: boolPtr(true)}, now))
	assert.Equal(t, 33, p.OverallProgress)
	assert.Equal(t, 1, p.CompletedLessons)

	assert.False(t, p.ApplyLessonUpdate("B", LessonUpdate{Completed: boolPtr(true)}, now))
	assert.Equal(t, 67, p.OverallProgress)

	assert.True(t, p.ApplyLessonUpdate("C", LessonUpdate{Completed: boolPtr(true)}, now))
	assert.Equal(t, 100, p.OverallProgress)
	assert.True(t, p.CertificateEarned)
	require.NotNil(t, p.CertificateIssuedAt)
	assert.Equal(t, now, *p.CertificateIssuedAt)

	// already earned: no second issuance
	assert.False(t, p.ApplyLessonUpdate("C", LessonUpdate{TimeSpent: floatPtr(1)}, now.Add(time.Hour)))
	assert.Equal(t, now, *p.CertificateIssuedAt)
}

func TestApplyLessonUpdateFieldsAndAttempts(t *testing.T) {
	p := &Progress{TotalLessons: 4}
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	p.ApplyLessonUpdate("L1", LessonUpdate{TimeSpent: floatPtr(5)}, t0)
	p.ApplyLessonUpdate("L1", LessonUpdate{TimeSpent: floatPtr(2.5), Score: floatPtr(80)}, t0)
	p.ApplyLessonUpdate("L1", LessonUpdate{Score: floatPtr(90)}, t0)
	p.ApplyLessonUpdate("L1", LessonUpdate{}, t1)

	require.Len(t, p.LessonProgress, 1)
	lp := p.LessonProgress[0]
	assert.Equal(t, "L1", lp.LessonID)
	assert.Equal(t, 7.5, lp.TimeSpent)
	require.NotNil(t, lp.Score)
	assert.Equal(t, 90.0, *lp.Score)
	assert.Equal(t, 4, lp.Attempts)
	assert.False(t, lp.Completed)
	assert.Nil(t, lp.CompletedAt)
	assert.Equal(t, t1, p.LastAccessed)
	assert.Equal(t, 0, p.OverallProgress)
}

func TestCompletedAtStampedOnlyOnTransition(t *testing.T) {
	p := &Progress{TotalLessons: 2}
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	p.ApplyLessonUpdate("L1", LessonUpdate{Completed: boolPtr(true)}, t0)
	p.ApplyLessonUpdate("L1", LessonUpdate{Completed: boolPtr(true)}, t0.Add(time.Hour))
	require.NotNil(t, p.LessonProgress[0].CompletedAt)
	assert.Equal(t, t0, *p.LessonProgress[0].CompletedAt)

	p.ApplyLessonUpdate("L1", LessonUpdate{Completed: boolPtr(false)}, t0.Add(2*time.Hour))
	assert.Nil(t, p.LessonProgress[0].CompletedAt)
	assert.Equal(t, 0, p.CompletedLessons)
	assert.Equal(t, 0, p.OverallProgress)
}

func TestCompletedLessonsMatchesEntries(t *testing.T) {
	p := &Progress{TotalLessons: 5}
	now := time.Now()
	steps := []struct {
		lesson    string
		completed bool
	}{
		{"a", true}, {"b", true}, {"a", false}, {"c", true}, {"d", false}, {"b", true},
	}
	for _, s := range steps {
		p.ApplyLessonUpdate(s.lesson, LessonUpdate{Completed: boolPtr(s.completed)}, now)
		count := 0
		for _, lp := range p.LessonProgress {
			if lp.Completed {
				count++
			}
		}
		assert.Equal(t, count, p.CompletedLessons)
		assert.Equal(t, Percentage(count, p.TotalLessons), p.OverallProgress)
	}
	assert.Equal(t, 2, p.CompletedLessons)
	assert.Equal(t, 40, p.OverallProgress)
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 8, 13}, // 12.5 rounds half up
		{1, 200, 1},
		{0, 0, 0},
		{4, 3, 100}, // stale denominator
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.completed, tt.total), "%d/%d", tt.completed, tt.total)
	}
}

func TestEmptyCourseNeverEarnsCertificate(t *testing.T) {
	p := &Progress{TotalLessons: 0}
	assert.False(t, p.ApplyLessonUpdate("x", LessonUpdate{Completed: boolPtr(true)}, time.Now()))
	assert.Equal(t, 0, p.OverallProgress)
	assert.False(t, p.CertificateEarned)
}
