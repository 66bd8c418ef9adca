package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"photomarket/internal/database"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateJob(ctx context.Context, job *Job) error {
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *GormStore) GetJob(ctx context.Context, id string) (*Job, error) {
	var job Job
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}

	jobs := []Job{job}
	if err := s.fillApplicantCounts(ctx, jobs); err != nil {
		return nil, err
	}
	return &jobs[0], nil
}

func (s *GormStore) ListJobs(ctx context.Context, filter JobFilter) ([]Job, error) {
	q := s.db.WithContext(ctx).Model(&Job{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}

	var jobs []Job
	if err := q.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if err := s.fillApplicantCounts(ctx, jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *GormStore) fillApplicantCounts(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}
	ids := make([]string, len(jobs))
	for i := range jobs {
		ids[i] = jobs[i].ID
	}

	var rows []struct {
		JobID string
		Total int64
	}
	err := s.db.WithContext(ctx).Model(&Proposal{}).
		Select("job_id, COUNT(*) AS total").
		Where("job_id IN ?", ids).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("count applicants: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.JobID] = r.Total
	}
	for i := range jobs {
		jobs[i].ApplicantCount = counts[jobs[i].ID]
	}
	return nil
}

func (s *GormStore) CloseJob(ctx context.Context, id string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, JobStatusOpen).
		Updates(map[string]any{"status": JobStatusClosed, "closed_at": at})
	if res.Error != nil {
		return fmt.Errorf("close job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetJob(ctx, id); err != nil {
			return err
		}
		return ErrJobAlreadyClosed
	}
	return nil
}

func (s *GormStore) InsertProposal(ctx context.Context, p *Proposal) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if database.IsUniqueViolation(err, proposalPairIndex) {
			return ErrDuplicateProposal
		}
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

func (s *GormStore) DeleteProposal(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Proposal{}).Error; err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	return nil
}

func (s *GormStore) GetProposal(ctx context.Context, id string) (*Proposal, error) {
	return s.firstProposal(s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *GormStore) FindProposal(ctx context.Context, jobID, photographerID string) (*Proposal, error) {
	return s.firstProposal(s.db.WithContext(ctx).Where("job_id = ? AND photographer_id = ?", jobID, photographerID))
}

func (s *GormStore) firstProposal(q *gorm.DB) (*Proposal, error) {
	var p Proposal
	if err := q.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return &p, nil
}

func (s *GormStore) ListProposalsByJob(ctx context.Context, jobID string) ([]Proposal, error) {
	var out []Proposal
	if err := s.db.WithContext(ctx).Where("job_id = ?", jobID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list job proposals: %w", err)
	}
	return out, nil
}

func (s *GormStore) ListProposalsByPhotographer(ctx context.Context, photographerID string) ([]Proposal, error) {
	var out []Proposal
	if err := s.db.WithContext(ctx).Where("photographer_id = ?", photographerID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	return out, nil
}

func (s *GormStore) UpdateProposalStatus(ctx context.Context, id string, status ProposalStatus, at time.Time) (*Proposal, error) {
	res := s.db.WithContext(ctx).Model(&Proposal{}).
		Where("id = ? AND status = ?", id, ProposalStatusPending).
		Updates(map[string]any{"status": status, "updated_at": at})
	if res.Error != nil {
		return nil, fmt.Errorf("update proposal status: %w", res.Error)
	}

	p, err := s.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidStatusTransition
	}
	return p, nil
}
