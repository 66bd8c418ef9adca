package marketplace

import (
	"context"
	"strings"

	"photomarket/internal/domain/identity"
	"photomarket/internal/events"
	"photomarket/internal/logger"
)

// CreateJob posts a new open job owned by actorID.
func (s *Service) CreateJob(ctx context.Context, actorID string, req CreateJobRequest) (*Job, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != identity.RoleClient && actor.Role != identity.RoleAdmin {
		return nil, ErrNotClient
	}
	if req.Budget <= 0 {
		return nil, ErrInvalidBudget
	}
	if req.ConnectsRequired <= 0 {
		return nil, ErrInvalidConnects
	}
	if !req.Deadline.After(s.now()) {
		return nil, ErrDeadlineInPast
	}

	job := &Job{
		ClientID:         actor.ID,
		Title:            strings.TrimSpace(req.Title),
		Description:      strings.TrimSpace(req.Description),
		Category:         strings.ToLower(strings.TrimSpace(req.Category)),
		Budget:           req.Budget,
		Currency:         strings.ToUpper(req.Currency),
		Deadline:         req.Deadline.UTC(),
		ConnectsRequired: req.ConnectsRequired,
		Status:           JobStatusOpen,
		VerifiedOnly:     req.VerifiedOnly,
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "job created", "job_id", job.ID, "connects", job.ConnectsRequired, "verified_only", job.VerifiedOnly)
	return job, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.store.GetJob(ctx, id)
}

func (s *Service) ListJobs(ctx context.Context, filter JobFilter) ([]Job, error) {
	filter.Category = strings.ToLower(strings.TrimSpace(filter.Category))
	return s.store.ListJobs(ctx, filter)
}

// CloseJob stops a job from taking proposals. Closed jobs are never reopened.
func (s *Service) CloseJob(ctx context.Context, jobID, actorID string) (*Job, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != actorID {
		return nil, ErrNotJobOwner
	}
	if err := s.store.CloseJob(ctx, jobID, s.now()); err != nil {
		return nil, err
	}

	closed, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "job closed", "job_id", jobID)

	proposals, err := s.store.ListProposalsByJob(ctx, jobID)
	if err != nil {
		logger.CtxWithError(ctx, "notify applicants of closed job", err, "job_id", jobID)
		return closed, nil
	}
	for _, p := range proposals {
		s.publisher.Publish(ctx, p.PhotographerID, events.Event{
			Type:    events.TypeJobClosed,
			Payload: map[string]any{"job_id": jobID},
		})
	}
	return closed, nil
}

func (s *Service) ListJobProposals(ctx context.Context, jobID, actorID string) ([]Proposal, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != actorID {
		return nil, ErrNotJobOwner
	}
	return s.store.ListProposalsByJob(ctx, jobID)
}

func (s *Service) ListMyProposals(ctx context.Context, userID string) ([]Proposal, error) {
	return s.store.ListProposalsByPhotographer(ctx, userID)
}

// UpdateProposalStatus lets the job owner accept or reject a pending proposal.
func (s *Service) UpdateProposalStatus(ctx context.Context, proposalID, actorID string, status ProposalStatus) (*Proposal, error) {
	if status != ProposalStatusAccepted && status != ProposalStatusRejected {
		return nil, ErrInvalidProposalStatus
	}

	p, err := s.store.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	job, err := s.store.GetJob(ctx, p.JobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != actorID {
		return nil, ErrNotJobOwner
	}

	updated, err := s.store.UpdateProposalStatus(ctx, proposalID, status, s.now())
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "proposal status changed", "proposal_id", updated.ID, "status", updated.Status)
	s.publisher.Publish(ctx, updated.PhotographerID, events.Event{
		Type: events.TypeProposalStatusChanged,
		Payload: map[string]any{
			"job_id":      job.ID,
			"proposal_id": updated.ID,
			"status":      updated.Status,
		},
	})
	return updated, nil
}
