package service

import (
	"github.com/dinperin/simikm-backend/internal/app/repository"
)

// Stats is the dashboard summary: active row counts per table plus the
// recycle bin badge count for businesses.
type Stats struct {
	Businesses        int64 `json:"businesses"`
	Trainings         int64 `json:"trainings"`
	ServiceRecords    int64 `json:"service_records"`
	DeletedBusinesses int64 `json:"deleted_businesses"`
}

type StatsService interface {
	ActiveCounts() (*Stats, error)
}

type statsService struct {
	businessRepo repository.BusinessRepository
	trainingRepo repository.TrainingRepository
	recordRepo   repository.ServiceRecordRepository
}

func NewStatsService(
	businessRepo repository.BusinessRepository,
	trainingRepo repository.TrainingRepository,
	recordRepo repository.ServiceRecordRepository,
) StatsService {
	return &statsService{
		businessRepo: businessRepo,
		trainingRepo: trainingRepo,
		recordRepo:   recordRepo,
	}
}

func (s *statsService) ActiveCounts() (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.Businesses, err = s.businessRepo.CountActive(); err != nil {
		return nil, err
	}
	if stats.Trainings, err = s.trainingRepo.CountActive(); err != nil {
		return nil, err
	}
	if stats.ServiceRecords, err = s.recordRepo.CountActive(); err != nil {
		return nil, err
	}
	if stats.DeletedBusinesses, err = s.businessRepo.CountDeleted(); err != nil {
		return nil, err
	}

	return stats, nil
}
