package marketplace

import (
	"errors"
	"fmt"
)

var (
	ErrJobNotFound             = errors.New("job not found")
	ErrProposalNotFound        = errors.New("proposal not found")
	ErrDuplicateProposal       = errors.New("proposal already exists for this job")
	ErrInvalidPrice            = errors.New("proposed price must be positive")
	ErrCoverLetterTooLong      = errors.New("cover letter is too long")
	ErrNotClient               = errors.New("only clients can post jobs")
	ErrDeadlineInPast          = errors.New("deadline must be in the future")
	ErrInvalidBudget           = errors.New("budget must be positive")
	ErrInvalidConnects         = errors.New("connects required must be positive")
	ErrNotJobOwner             = errors.New("only the job owner can do this")
	ErrJobAlreadyClosed        = errors.New("job is already closed")
	ErrInvalidStatusTransition = errors.New("proposal is no longer pending")
	ErrInvalidProposalStatus   = errors.New("status must be accepted or rejected")
)

// DenialError carries a negative eligibility decision out of Submit.
type DenialError struct {
	Decision Decision
}

func (e *DenialError) Error() string {
	return fmt.Sprintf("application denied: %s", e.Decision.Reason)
}

// AsDenial unwraps a DenialError from err.
func AsDenial(err error) (*DenialError, bool) {
	var d *DenialError
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
