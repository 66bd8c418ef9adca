package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"photomarket/internal/app"
	"photomarket/internal/domain/identity"
	"photomarket/internal/domain/marketplace"
	"photomarket/internal/logger"
)

type demoUser struct {
	email    string
	name     string
	role     identity.Role
	country  string
	age      time.Duration
	verified bool
	credits  int64
}

const demoPassword = "password123"

var demoUsers = []demoUser{
	{email: "client@photomarket.local", name: "Salma Ben Ali", role: identity.RoleClient, country: "Tunisia", age: 60 * 24 * time.Hour},
	{email: "agency@photomarket.local", name: "Carthage Events", role: identity.RoleClient, country: "Tunisia", age: 200 * 24 * time.Hour},
	{email: "youssef@photomarket.local", name: "Youssef Trabelsi", role: identity.RoleCreative, country: "Tunisia", age: 90 * 24 * time.Hour, verified: true, credits: 20},
	{email: "amira@photomarket.local", name: "Amira Gharbi", role: identity.RoleCreative, country: "Tunisia", age: 30 * 24 * time.Hour, credits: 20},
	{email: "karim@photomarket.local", name: "Karim Jaziri", role: identity.RoleCreative, country: "tunisia", age: 3 * 24 * time.Hour, verified: true, credits: 20},
	{email: "lea@photomarket.local", name: "Lea Martin", role: identity.RoleCreative, country: "France", age: 400 * 24 * time.Hour, verified: true, credits: 20},
	{email: "broke@photomarket.local", name: "Nadia Sassi", role: identity.RoleCreative, country: "Tunisia", age: 120 * 24 * time.Hour, verified: true, credits: 2},
	{email: "visitor@photomarket.local", name: "Visitor", role: identity.RoleVisitor, country: "Tunisia", age: 10 * 24 * time.Hour},
}

func main() {
	cfg, err := app.Bootstrap()
	if err != nil {
		logger.Fatal("Config load failed", "error", err)
	}

	ctx := context.Background()
	c, cleanup, err := app.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Open failed", "error", err)
	}
	defer cleanup()

	if _, err := c.Identity.EnsureAdmin(ctx, identity.AdminSeed{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
		Country:  cfg.AdminCountry,
	}); err != nil {
		logger.Fatal("Admin bootstrap failed", "error", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("Hash failed", "error", err)
	}

	logger.Info("Creating users...")
	users := map[string]*identity.User{}
	for _, d := range demoUsers {
		u := &identity.User{
			Email:        d.email,
			PasswordHash: string(hash),
			Name:         d.name,
			Role:         d.role,
			Country:      d.country,
			SeedVerified: d.verified,
			CreatedAt:    time.Now().UTC().Add(-d.age),
		}
		if err := c.Users.Create(ctx, u); err != nil {
			if !errors.Is(err, identity.ErrEmailAlreadyExists) {
				logger.Fatal("Create user failed", "email", d.email, "error", err)
			}
			if u, err = c.Users.GetByEmail(ctx, d.email); err != nil {
				logger.Fatal("Load user failed", "email", d.email, "error", err)
			}
			logger.Info("User exists, skipping", "email", d.email)
		}
		users[d.email] = u

		if d.role == identity.RoleCreative {
			if err := c.Ledger.SetBalance(ctx, u.ID, d.credits); err != nil {
				logger.Fatal("Set balance failed", "email", d.email, "error", err)
			}
		}
	}

	existing, err := c.Marketplace.ListJobs(ctx, marketplace.JobFilter{})
	if err != nil {
		logger.Fatal("List jobs failed", "error", err)
	}
	if len(existing) > 0 {
		logger.Info("Jobs already seeded", "count", len(existing))
		return
	}

	logger.Info("Creating jobs...")
	jobs := []struct {
		owner string
		req   marketplace.CreateJobRequest
	}{
		{"client@photomarket.local", marketplace.CreateJobRequest{
			Title: "Wedding photographer in Sousse", Category: "wedding", Budget: 1500, Currency: "TND",
			Deadline: time.Now().Add(21 * 24 * time.Hour), ConnectsRequired: 4,
		}},
		{"client@photomarket.local", marketplace.CreateJobRequest{
			Title: "Product photos for a ceramics shop", Category: "product", Budget: 450, Currency: "TND",
			Deadline: time.Now().Add(10 * 24 * time.Hour), ConnectsRequired: 2,
		}},
		{"agency@photomarket.local", marketplace.CreateJobRequest{
			Title: "Festival coverage, verified creatives only", Category: "event", Budget: 3000, Currency: "TND",
			Deadline: time.Now().Add(30 * 24 * time.Hour), ConnectsRequired: 6, VerifiedOnly: true,
		}},
		{"agency@photomarket.local", marketplace.CreateJobRequest{
			Title: "Corporate headshots", Category: "portrait", Budget: 800, Currency: "EUR",
			Deadline: time.Now().Add(7 * 24 * time.Hour), ConnectsRequired: 3,
		}},
	}
	for _, j := range jobs {
		job, err := c.Marketplace.CreateJob(ctx, users[j.owner].ID, j.req)
		if err != nil {
			logger.Fatal("Create job failed", "title", j.req.Title, "error", err)
		}
		logger.Info("Job created", "id", job.ID, "title", job.Title)
	}

	logger.Info("Seed complete", "users", len(users), "jobs", len(jobs), "password", demoPassword)
}
