package marketplace

import (
	"fmt"
	"math"
	"strings"
	"time"

	"photomarket/internal/domain/identity"
)

const (
	DefaultRegion        = "Tunisia"
	DefaultMinAccountAge = 7 * 24 * time.Hour
)

// Reason identifies the outcome of an eligibility check.
type Reason string

const (
	ReasonAllowed              Reason = "allowed"
	ReasonNotAuthenticated     Reason = "not_authenticated"
	ReasonRegionRestricted     Reason = "region_restricted"
	ReasonWrongRole            Reason = "wrong_role"
	ReasonAccountTooNew        Reason = "account_too_new"
	ReasonVerificationRequired Reason = "verification_required"
	ReasonJobClosed            Reason = "job_closed"
	ReasonAlreadyApplied       Reason = "already_applied"
	ReasonInsufficientCredits  Reason = "insufficient_credits"
)

// NextAction is what the UI should offer the user after a denial.
type NextAction string

const (
	ActionLogin               NextAction = "login"
	ActionContactSupport      NextAction = "contact_support"
	ActionSwitchAccount       NextAction = "switch_account"
	ActionWait                NextAction = "wait"
	ActionRequestVerification NextAction = "request_verification"
	ActionBrowseJobs          NextAction = "browse_jobs"
	ActionViewProposal        NextAction = "view_proposal"
	ActionGetCredits          NextAction = "get_credits"
)

// Decision is the result of Evaluate. Exactly one reason is reported.
type Decision struct {
	Allowed       bool       `json:"allowed"`
	Reason        Reason     `json:"reason"`
	Message       string     `json:"message"`
	NextAction    NextAction `json:"next_action,omitempty"`
	DaysRemaining int        `json:"days_remaining,omitempty"`
	// VerifiedOnly marks a verification denial caused by the job's own flag.
	VerifiedOnly     bool  `json:"verified_only,omitempty"`
	ConnectsRequired int64 `json:"connects_required,omitempty"`
	Balance          int64 `json:"balance,omitempty"`
}

// Input is a snapshot of everything the gate looks at.
type Input struct {
	User           *identity.User // nil when anonymous
	Job            Job
	Balance        int64
	Verified       bool
	RegionAccess   bool
	AlreadyApplied bool
	Now            time.Time
	MinAccountAge  time.Duration
}

// Evaluate decides whether Input.User may apply to Input.Job. Checks run in
// a fixed order and the first failing one is reported.
func Evaluate(in Input) Decision {
	if in.User == nil {
		return deny(ReasonNotAuthenticated)
	}
	if !in.RegionAccess {
		return deny(ReasonRegionRestricted)
	}
	if in.User.Role == identity.RoleClient {
		return deny(ReasonWrongRole)
	}

	if in.User.Role == identity.RoleCreative {
		minAge := in.MinAccountAge
		if minAge <= 0 {
			minAge = DefaultMinAccountAge
		}
		if age := in.Now.Sub(in.User.CreatedAt); age < minAge {
			d := deny(ReasonAccountTooNew)
			d.DaysRemaining = daysRemaining(minAge, age)
			d.Message = fmt.Sprintf("New accounts can apply to jobs after %d days. Try again in %d day(s).",
				int(minAge.Hours()/24), d.DaysRemaining)
			return d
		}
	}

	if !in.Verified {
		d := deny(ReasonVerificationRequired)
		if in.Job.VerifiedOnly {
			d.VerifiedOnly = true
			d.Message = "This job is open to verified creatives only. Request verification to apply."
		}
		return d
	}
	if !in.Job.IsOpen() {
		return deny(ReasonJobClosed)
	}
	if in.AlreadyApplied {
		return deny(ReasonAlreadyApplied)
	}
	if in.Balance < in.Job.ConnectsRequired {
		return insufficientCredits(in.Job.ConnectsRequired, in.Balance)
	}

	return Decision{
		Allowed:          true,
		Reason:           ReasonAllowed,
		Message:          "You can apply to this job.",
		ConnectsRequired: in.Job.ConnectsRequired,
		Balance:          in.Balance,
	}
}

// HasRegionAccess reports whether u may use the jobs marketplace of region.
// Admins always can.
func HasRegionAccess(u *identity.User, region string) bool {
	if u == nil {
		return false
	}
	if u.Role == identity.RoleAdmin {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(u.Country), strings.TrimSpace(region))
}

// daysRemaining is ceil(minAge - age) in days.
func daysRemaining(minAge, age time.Duration) int {
	return int(math.Ceil((minAge - age).Hours() / 24))
}

var denials = map[Reason]struct {
	message string
	action  NextAction
}{
	ReasonNotAuthenticated:     {"Log in to apply to jobs.", ActionLogin},
	ReasonRegionRestricted:     {"The jobs marketplace is not available in your region yet.", ActionContactSupport},
	ReasonWrongRole:            {"Client accounts cannot apply to jobs. Switch to a creative account to apply.", ActionSwitchAccount},
	ReasonAccountTooNew:        {"Your account is too new to apply to jobs.", ActionWait},
	ReasonVerificationRequired: {"Only verified creatives can apply to jobs. Request verification to continue.", ActionRequestVerification},
	ReasonJobClosed:            {"This job is no longer accepting proposals.", ActionBrowseJobs},
	ReasonAlreadyApplied:       {"You have already applied to this job.", ActionViewProposal},
	ReasonInsufficientCredits:  {"You do not have enough Connects to apply to this job.", ActionGetCredits},
}

func insufficientCredits(required, balance int64) Decision {
	d := deny(ReasonInsufficientCredits)
	d.ConnectsRequired = required
	d.Balance = balance
	d.Message = fmt.Sprintf("This job needs %d Connects and you have %d.", required, balance)
	return d
}

func deny(reason Reason) Decision {
	d := denials[reason]
	return Decision{Reason: reason, Message: d.message, NextAction: d.action}
}
