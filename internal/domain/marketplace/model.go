package marketplace

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// proposalPairIndex enforces one proposal per job and photographer.
const proposalPairIndex = "idx_proposals_job_photographer"

// Job is a client's posting. Status only moves open -> closed.
type Job struct {
	ID               string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	ClientID         string     `json:"client_id" gorm:"type:varchar(36);not null;index"`
	Title            string     `json:"title" gorm:"size:200;not null"`
	Description      string     `json:"description" gorm:"type:text"`
	Category         string     `json:"category" gorm:"size:64;not null;index"`
	Budget           float64    `json:"budget" gorm:"not null"`
	Currency         string     `json:"currency" gorm:"type:varchar(3);not null"`
	Deadline         time.Time  `json:"deadline" gorm:"not null"`
	ConnectsRequired int64      `json:"connects_required" gorm:"not null"`
	Status           JobStatus  `json:"status" gorm:"type:varchar(16);not null;index"`
	VerifiedOnly     bool       `json:"verified_only" gorm:"not null;default:false"`
	ApplicantCount   int64      `json:"applicant_count" gorm:"-"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(_ *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

func (j *Job) IsOpen() bool {
	return j.Status == JobStatusOpen
}

// Proposal is a creative's application to a job.
type Proposal struct {
	ID             string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	JobID          string         `json:"job_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_proposals_job_photographer,priority:1"`
	PhotographerID string         `json:"photographer_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_proposals_job_photographer,priority:2;index"`
	CoverLetter    string         `json:"cover_letter" gorm:"type:text"`
	ProposedPrice  float64        `json:"proposed_price" gorm:"not null"`
	Status         ProposalStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Proposal) TableName() string {
	return "proposals"
}

func (p *Proposal) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// JobFilter narrows ListJobs. Empty fields match everything.
type JobFilter struct {
	Category string
	Status   JobStatus
	ClientID string
}

func Models() []any {
	return []any{&Job{}, &Proposal{}}
}
