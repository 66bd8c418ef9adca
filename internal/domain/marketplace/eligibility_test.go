package marketplace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"photomarket/internal/domain/identity"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func tunisianCreative(age time.Duration) *identity.User {
	return &identity.User{
		ID:        "creative-1",
		Role:      identity.RoleCreative,
		Country:   "Tunisia",
		CreatedAt: fixedNow.Add(-age),
	}
}

func openJob(connects int64) Job {
	return Job{ID: "job-1", ClientID: "client-1", ConnectsRequired: connects, Status: JobStatusOpen}
}

func allowedInput() Input {
	return Input{
		User:         tunisianCreative(10 * 24 * time.Hour),
		Job:          openJob(4),
		Balance:      5,
		Verified:     true,
		RegionAccess: true,
		Now:          fixedNow,
	}
}

func TestEvaluate_ScenarioAllowed(t *testing.T) {
	d := Evaluate(allowedInput())
	assert.True(t, d.Allowed)
	assert.Equal(t, ReasonAllowed, d.Reason)
}

func TestEvaluate_ScenarioInsufficientCredits(t *testing.T) {
	in := allowedInput()
	in.Balance = 2

	d := Evaluate(in)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInsufficientCredits, d.Reason)
	assert.Equal(t, ActionGetCredits, d.NextAction)
	assert.Equal(t, int64(4), d.ConnectsRequired)
	assert.Equal(t, int64(2), d.Balance)
}

func TestEvaluate_ScenarioRegionRestrictedFirst(t *testing.T) {
	u := tunisianCreative(time.Hour)
	u.Country = "France"

	in := Input{
		User:           u,
		Job:            Job{ID: "job-2", Status: JobStatusClosed, VerifiedOnly: true, ConnectsRequired: 50},
		RegionAccess:   HasRegionAccess(u, DefaultRegion),
		AlreadyApplied: true,
		Now:            fixedNow,
	}
	d := Evaluate(in)
	assert.Equal(t, ReasonRegionRestricted, d.Reason)
	assert.Equal(t, ActionContactSupport, d.NextAction)
}

func TestEvaluate_Precedence(t *testing.T) {
	// every row breaks all the checks below its expected reason too
	cases := []struct {
		name   string
		mutate func(in *Input)
		want   Reason
	}{
		{"anonymous", func(in *Input) { in.User = nil; in.RegionAccess = false; in.Job.Status = JobStatusClosed }, ReasonNotAuthenticated},
		{"region", func(in *Input) { in.RegionAccess = false; in.User.Role = identity.RoleClient; in.Balance = 0 }, ReasonRegionRestricted},
		{"client", func(in *Input) { in.User.Role = identity.RoleClient; in.User.CreatedAt = fixedNow; in.Verified = false }, ReasonWrongRole},
		{"too new", func(in *Input) {
			in.User.CreatedAt = fixedNow.Add(-time.Hour)
			in.Verified = false
			in.AlreadyApplied = true
		}, ReasonAccountTooNew},
		{"unverified", func(in *Input) { in.Verified = false; in.Job.Status = JobStatusClosed; in.Balance = 0 }, ReasonVerificationRequired},
		{"closed", func(in *Input) { in.Job.Status = JobStatusClosed; in.AlreadyApplied = true; in.Balance = 0 }, ReasonJobClosed},
		{"applied", func(in *Input) { in.AlreadyApplied = true; in.Balance = 0 }, ReasonAlreadyApplied},
		{"broke", func(in *Input) { in.Balance = 3 }, ReasonInsufficientCredits},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := allowedInput()
			tc.mutate(&in)
			d := Evaluate(in)
			assert.False(t, d.Allowed)
			assert.Equal(t, tc.want, d.Reason)
			assert.NotEmpty(t, d.Message)
			assert.NotEmpty(t, d.NextAction)
		})
	}
}

func TestEvaluate_AccountAge(t *testing.T) {
	in := allowedInput()
	in.User = tunisianCreative(6 * 24 * time.Hour)
	d := Evaluate(in)
	assert.Equal(t, ReasonAccountTooNew, d.Reason)
	assert.Equal(t, 1, d.DaysRemaining)
	assert.Equal(t, ActionWait, d.NextAction)

	in.User = tunisianCreative(36 * time.Hour)
	d = Evaluate(in)
	assert.Equal(t, 6, d.DaysRemaining)

	in.User = tunisianCreative(7*24*time.Hour + time.Second)
	d = Evaluate(in)
	assert.True(t, d.Allowed)
}

func TestEvaluate_AccountAgeOnlyForCreatives(t *testing.T) {
	in := allowedInput()
	in.User = &identity.User{ID: "v", Role: identity.RoleVisitor, Country: "tunisia", CreatedAt: fixedNow}
	d := Evaluate(in)
	assert.True(t, d.Allowed)
}

func TestEvaluate_VerifiedOnlySubCase(t *testing.T) {
	in := allowedInput()
	in.Verified = false

	general := Evaluate(in)
	assert.Equal(t, ReasonVerificationRequired, general.Reason)
	assert.False(t, general.VerifiedOnly)

	in.Job.VerifiedOnly = true
	specific := Evaluate(in)
	assert.Equal(t, ReasonVerificationRequired, specific.Reason)
	assert.True(t, specific.VerifiedOnly)
	assert.NotEqual(t, general.Message, specific.Message)
	assert.Equal(t, ActionRequestVerification, specific.NextAction)
}

func TestHasRegionAccess(t *testing.T) {
	assert.False(t, HasRegionAccess(nil, DefaultRegion))
	assert.True(t, HasRegionAccess(&identity.User{Role: identity.RoleCreative, Country: "TUNISIA"}, DefaultRegion))
	assert.True(t, HasRegionAccess(&identity.User{Role: identity.RoleClient, Country: " tunisia "}, DefaultRegion))
	assert.False(t, HasRegionAccess(&identity.User{Role: identity.RoleCreative, Country: "France"}, DefaultRegion))
	assert.True(t, HasRegionAccess(&identity.User{Role: identity.RoleAdmin, Country: "France"}, DefaultRegion))
	assert.False(t, HasRegionAccess(&identity.User{Role: identity.RoleCreative}, DefaultRegion))
}
