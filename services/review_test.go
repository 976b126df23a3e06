package services

import (
	"context"
	"edhub/logger"
	"edhub/models"
	"edhub/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewsFeedCourseRating(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	reviews := NewReviewService(e.db, logger.Nop(), e.courseRepo, e.userRepo, repository.NewReviewRepo(e.db, logger.Nop()))

	inst := e.user(t, "teach", models.RoleInstructor)
	ann := e.user(t, "ann", models.RoleStudent)
	bob := e.user(t, "bob", models.RoleStudent)
	c := e.course(t, inst, "Rated Course")

	_, _, err := reviews.Submit(ctx, ann.ID, c.ID, 5, "great")
	assert.ErrorIs(t, err, ErrNotEnrolled)

	for _, u := range []*models.User{ann, bob} {
		_, err := e.enrollment.Enroll(ctx, u.ID, c.ID)
		require.NoError(t, err)
	}

	_, created, err := reviews.Submit(ctx, ann.ID, c.ID, 5, "great")
	require.NoError(t, err)
	assert.True(t, created)
	_, _, err = reviews.Submit(ctx, bob.ID, c.ID, 4, "good")
	require.NoError(t, err)
	_, created, err = reviews.Submit(ctx, ann.ID, c.ID, 2, "  changed my mind  ")
	require.NoError(t, err)
	assert.False(t, created)

	got, err := e.courses.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Rating.Average)
	assert.Equal(t, 2, got.Rating.Count)

	page, err := reviews.List(ctx, c.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Reviews, 2)
	assert.Equal(t, 2, page.Rating.Count)
	for _, r := range page.Reviews {
		require.NotNil(t, r.User)
		if r.UserID == ann.ID {
			assert.Equal(t, "changed my mind", r.Comment)
			assert.Equal(t, "ann", r.User.Name)
		}
	}

	_, err = reviews.List(ctx, 999, 1, 10)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}
