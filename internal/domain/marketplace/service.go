package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"photomarket/internal/domain/credits"
	"photomarket/internal/domain/identity"
	"photomarket/internal/events"
	"photomarket/internal/logger"
	"photomarket/internal/metrics"
)

const MaxCoverLetterLength = 5000

type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*identity.User, error)
}

type VerificationChecker interface {
	IsVerified(ctx context.Context, userID string) (bool, error)
}

type CreditLedger interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Debit(ctx context.Context, userID string, amount int64, reason string) (*credits.Transaction, error)
}

type Options struct {
	Region        string
	MinAccountAge time.Duration
}

// Service runs the job catalog and the apply flow.
type Service struct {
	store        Store
	users        UserDirectory
	verification VerificationChecker
	ledger       CreditLedger
	publisher    events.Publisher
	opts         Options
	locks        *userLocks
	now          func() time.Time
}

func NewService(store Store, users UserDirectory, verification VerificationChecker, ledger CreditLedger, publisher events.Publisher, opts Options) *Service {
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}
	if opts.MinAccountAge <= 0 {
		opts.MinAccountAge = DefaultMinAccountAge
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		store:        store,
		users:        users,
		verification: verification,
		ledger:       ledger,
		publisher:    publisher,
		opts:         opts,
		locks:        newUserLocks(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CheckEligibility evaluates the gate for userID ("" for anonymous) without
// changing anything.
func (s *Service) CheckEligibility(ctx context.Context, jobID, userID string) (Decision, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return Decision{}, err
	}
	d, err := s.evaluate(ctx, job, userID)
	if err != nil {
		return Decision{}, err
	}
	metrics.RecordEligibility(string(d.Reason))
	return d, nil
}

func (s *Service) evaluate(ctx context.Context, job *Job, userID string) (Decision, error) {
	in := Input{
		Job:           *job,
		Now:           s.now(),
		MinAccountAge: s.opts.MinAccountAge,
	}
	if userID == "" {
		return Evaluate(in), nil
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return Evaluate(in), nil
		}
		return Decision{}, err
	}
	in.User = u
	in.RegionAccess = HasRegionAccess(u, s.opts.Region)

	if in.Verified, err = s.verification.IsVerified(ctx, u.ID); err != nil {
		return Decision{}, fmt.Errorf("load verification: %w", err)
	}

	switch _, err := s.store.FindProposal(ctx, job.ID, u.ID); {
	case err == nil:
		in.AlreadyApplied = true
	case !errors.Is(err, ErrProposalNotFound):
		return Decision{}, err
	}

	if in.Balance, err = s.ledger.Balance(ctx, u.ID); err != nil {
		return Decision{}, fmt.Errorf("load balance: %w", err)
	}
	return Evaluate(in), nil
}

// Submit applies userID to a job. Denials come back as *DenialError. On
// success the proposal exists and the job's Connects were debited.
func (s *Service) Submit(ctx context.Context, req SubmitProposalRequest) (*Proposal, error) {
	if req.ProposedPrice <= 0 {
		return nil, ErrInvalidPrice
	}
	if utf8.RuneCountInString(req.CoverLetter) > MaxCoverLetterLength {
		return nil, ErrCoverLetterTooLong
	}

	job, err := s.store.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if d, err := s.evaluate(ctx, job, req.UserID); err != nil {
		return nil, err
	} else if !d.Allowed {
		return nil, s.denied(ctx, d)
	}

	unlock := s.locks.Lock(req.UserID)
	defer unlock()

	// balance, job status or an earlier proposal may have changed meanwhile
	job, err = s.store.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	d, err := s.evaluate(ctx, job, req.UserID)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		return nil, s.denied(ctx, d)
	}

	p := &Proposal{
		JobID:          job.ID,
		PhotographerID: req.UserID,
		CoverLetter:    strings.TrimSpace(req.CoverLetter),
		ProposedPrice:  req.ProposedPrice,
		Status:         ProposalStatusPending,
	}
	if err := s.store.InsertProposal(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateProposal) {
			return nil, s.denied(ctx, deny(ReasonAlreadyApplied))
		}
		metrics.RecordSubmission("error")
		return nil, err
	}

	if _, err := s.ledger.Debit(ctx, req.UserID, job.ConnectsRequired, credits.ReasonJobApply); err != nil {
		if delErr := s.store.DeleteProposal(ctx, p.ID); delErr != nil {
			logger.CtxWithError(ctx, "proposal left without debit", delErr, "proposal_id", p.ID, "job_id", job.ID)
		} else {
			logger.CtxWithError(ctx, "debit failed, proposal removed", err, "proposal_id", p.ID, "job_id", job.ID)
		}
		if errors.Is(err, credits.ErrInsufficientCredits) {
			balance, berr := s.ledger.Balance(ctx, req.UserID)
			if berr != nil {
				logger.CtxWarn(ctx, "reload balance after lost debit", "user_id", req.UserID, "error", berr.Error())
				balance = d.Balance
			}
			return nil, s.denied(ctx, insufficientCredits(job.ConnectsRequired, balance))
		}
		metrics.RecordSubmission("error")
		return nil, err
	}

	metrics.RecordSubmission("created")
	logger.CtxInfo(ctx, "proposal submitted", "proposal_id", p.ID, "job_id", job.ID, "connects", job.ConnectsRequired)
	s.publisher.Publish(ctx, job.ClientID, events.Event{
		Type: events.TypeProposalCreated,
		Payload: map[string]any{
			"job_id":      job.ID,
			"proposal_id": p.ID,
		},
	})
	return p, nil
}

func (s *Service) denied(ctx context.Context, d Decision) error {
	metrics.RecordEligibility(string(d.Reason))
	metrics.RecordSubmission("denied")
	logger.CtxInfo(ctx, "proposal denied", "reason", d.Reason)
	return &DenialError{Decision: d}
}
