package services

import (
	"context"
	"edhub/logger"
	"edhub/repository"
	"math"

	"gorm.io/gorm"
)

type MaintenanceService interface {
	ReconcileCourseStats(ctx context.Context) (int, error)
}

type maintenanceService struct {
	db       *gorm.DB
	log      *logger.Logger
	courses  repository.CourseRepo
	progress repository.ProgressRepo
	reviews  repository.ReviewRepo
}

func NewMaintenanceService(db *gorm.DB, log *logger.Logger, courses repository.CourseRepo, progress repository.ProgressRepo, reviews repository.ReviewRepo) MaintenanceService {
	return &maintenanceService{
		db:       db,
		log:      log.With("service", "MaintenanceService"),
		courses:  courses,
		progress: progress,
		reviews:  reviews,
	}
}

// ReconcileCourseStats recomputes every course's enrollment count and rating
// from the progress and review records. It returns the number of courses whose
// stored values changed.
func (s *maintenanceService) ReconcileCourseStats(ctx context.Context) (int, error) {
	ids, err := s.courses.ListIDs(ctx, nil)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		fixed := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			course, err := s.courses.GetByIDForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}
			enrolled, err := s.progress.CountForCourse(ctx, tx, id)
			if err != nil {
				return err
			}
			if course.EnrollmentCount != enrolled {
				if err := s.courses.SetEnrollmentCount(ctx, tx, id, enrolled); err != nil {
					return err
				}
				fixed = true
			}

			rating, err := s.reviews.Aggregate(ctx, tx, id)
			if err != nil {
				return err
			}
			rating.Average = math.Round(rating.Average*10) / 10
			if rating != course.Rating {
				if err := s.courses.UpdateRating(ctx, tx, id, rating); err != nil {
					return err
				}
				fixed = true
			}
			return nil
		})
		if err != nil {
			s.log.Error("Failed to reconcile course stats", "courseId", id, "error", err)
			continue
		}
		if fixed {
			changed++
		}
	}
	s.log.Info("Course stats reconciled", "courses", len(ids), "changed", changed)
	return changed, nil
}
