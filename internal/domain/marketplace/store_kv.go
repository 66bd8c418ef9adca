package marketplace

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"photomarket/internal/kvstore"
)

const (
	jobsKey      = "jobs"
	proposalsKey = "proposals"
)

// KVStore keeps jobs and proposals as whole documents. There is no
// uniqueness constraint underneath; InsertProposal checks the pair inside
// the document lock, which only covers this process.
type KVStore struct {
	jobs      *kvstore.Document[[]Job]
	proposals *kvstore.Document[[]Proposal]
}

func NewKVStore(store kvstore.Store) *KVStore {
	return &KVStore{
		jobs:      kvstore.NewDocument(store, jobsKey, func() []Job { return []Job{} }),
		proposals: kvstore.NewDocument(store, proposalsKey, func() []Proposal { return []Proposal{} }),
	}
}

func (s *KVStore) CreateJob(ctx context.Context, job *Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	return s.jobs.Update(ctx, func(list *[]Job) error {
		stored := *job
		stored.ApplicantCount = 0
		*list = append(*list, stored)
		return nil
	})
}

func (s *KVStore) GetJob(ctx context.Context, id string) (*Job, error) {
	jobs, err := s.jobs.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, j := range jobs {
		if j.ID == id {
			found := []Job{j}
			if err := s.fillApplicantCounts(ctx, found); err != nil {
				return nil, err
			}
			return &found[0], nil
		}
	}
	return nil, ErrJobNotFound
}

func (s *KVStore) ListJobs(ctx context.Context, filter JobFilter) ([]Job, error) {
	jobs, err := s.jobs.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if filter.Category != "" && j.Category != filter.Category {
			continue
		}
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		if filter.ClientID != "" && j.ClientID != filter.ClientID {
			continue
		}
		out = append(out, j)
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })

	if err := s.fillApplicantCounts(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *KVStore) fillApplicantCounts(ctx context.Context, jobs []Job) error {
	proposals, err := s.proposals.Load(ctx)
	if err != nil {
		return err
	}
	counts := make(map[string]int64)
	for _, p := range proposals {
		counts[p.JobID]++
	}
	for i := range jobs {
		jobs[i].ApplicantCount = counts[jobs[i].ID]
	}
	return nil
}

func (s *KVStore) CloseJob(ctx context.Context, id string, at time.Time) error {
	return s.jobs.Update(ctx, func(list *[]Job) error {
		for i := range *list {
			j := &(*list)[i]
			if j.ID != id {
				continue
			}
			if !j.IsOpen() {
				return ErrJobAlreadyClosed
			}
			closedAt := at
			j.Status = JobStatusClosed
			j.ClosedAt = &closedAt
			j.UpdatedAt = at
			return nil
		}
		return ErrJobNotFound
	})
}

func (s *KVStore) InsertProposal(ctx context.Context, p *Proposal) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	return s.proposals.Update(ctx, func(list *[]Proposal) error {
		for _, existing := range *list {
			if existing.JobID == p.JobID && existing.PhotographerID == p.PhotographerID {
				return ErrDuplicateProposal
			}
		}
		*list = append(*list, *p)
		return nil
	})
}

func (s *KVStore) DeleteProposal(ctx context.Context, id string) error {
	return s.proposals.Update(ctx, func(list *[]Proposal) error {
		kept := (*list)[:0]
		for _, p := range *list {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		*list = kept
		return nil
	})
}

func (s *KVStore) GetProposal(ctx context.Context, id string) (*Proposal, error) {
	return s.findProposal(ctx, func(p Proposal) bool { return p.ID == id })
}

func (s *KVStore) FindProposal(ctx context.Context, jobID, photographerID string) (*Proposal, error) {
	return s.findProposal(ctx, func(p Proposal) bool {
		return p.JobID == jobID && p.PhotographerID == photographerID
	})
}

func (s *KVStore) findProposal(ctx context.Context, match func(Proposal) bool) (*Proposal, error) {
	list, err := s.proposals.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if match(p) {
			found := p
			return &found, nil
		}
	}
	return nil, ErrProposalNotFound
}

func (s *KVStore) ListProposalsByJob(ctx context.Context, jobID string) ([]Proposal, error) {
	out, err := s.filterProposals(ctx, func(p Proposal) bool { return p.JobID == jobID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out, nil
}

func (s *KVStore) ListProposalsByPhotographer(ctx context.Context, photographerID string) ([]Proposal, error) {
	out, err := s.filterProposals(ctx, func(p Proposal) bool { return p.PhotographerID == photographerID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (s *KVStore) filterProposals(ctx context.Context, match func(Proposal) bool) ([]Proposal, error) {
	list, err := s.proposals.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Proposal, 0)
	for _, p := range list {
		if match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *KVStore) UpdateProposalStatus(ctx context.Context, id string, status ProposalStatus, at time.Time) (*Proposal, error) {
	var updated Proposal
	err := s.proposals.Update(ctx, func(list *[]Proposal) error {
		for i := range *list {
			p := &(*list)[i]
			if p.ID != id {
				continue
			}
			if p.Status != ProposalStatusPending {
				return ErrInvalidStatusTransition
			}
			p.Status = status
			p.UpdatedAt = at
			updated = *p
			return nil
		}
		return ErrProposalNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
