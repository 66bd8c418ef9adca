package marketplace

import "time"

type CreateJobRequest struct {
	Title            string    `json:"title" validate:"required,max=200"`
	Description      string    `json:"description" validate:"max=5000"`
	Category         string    `json:"category" validate:"required,max=64"`
	Budget           float64   `json:"budget" validate:"gt=0"`
	Currency         string    `json:"currency" validate:"required,len=3,alpha"`
	Deadline         time.Time `json:"deadline" validate:"required"`
	ConnectsRequired int64     `json:"connects_required" validate:"gt=0"`
	VerifiedOnly     bool      `json:"verified_only"`
}

// SubmitProposalRequest is the apply payload plus the applicant.
type SubmitProposalRequest struct {
	JobID         string  `json:"-"`
	UserID        string  `json:"-"`
	CoverLetter   string  `json:"cover_letter" validate:"max=5000"`
	ProposedPrice float64 `json:"proposed_price" validate:"gt=0"`
}

type UpdateProposalStatusRequest struct {
	Status ProposalStatus `json:"status" validate:"required,oneof=accepted rejected"`
}
