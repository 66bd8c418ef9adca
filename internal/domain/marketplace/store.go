package marketplace

import (
	"context"
	"time"
)

// Store persists jobs and proposals. Jobs come back with ApplicantCount set.
type Store interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]Job, error)
	// CloseJob moves an open job to closed.
	CloseJob(ctx context.Context, id string, at time.Time) error

	// InsertProposal returns ErrDuplicateProposal when the photographer
	// already applied to the job.
	InsertProposal(ctx context.Context, p *Proposal) error
	DeleteProposal(ctx context.Context, id string) error
	GetProposal(ctx context.Context, id string) (*Proposal, error)
	FindProposal(ctx context.Context, jobID, photographerID string) (*Proposal, error)
	ListProposalsByJob(ctx context.Context, jobID string) ([]Proposal, error)
	ListProposalsByPhotographer(ctx context.Context, photographerID string) ([]Proposal, error)
	// UpdateProposalStatus moves a pending proposal to status.
	UpdateProposalStatus(ctx context.Context, id string, status ProposalStatus, at time.Time) (*Proposal, error)
}
