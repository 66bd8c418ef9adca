package marketplace

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers job browsing. optionalAuth attaches the
// caller to eligibility checks when a token is sent.
func RegisterPublicRoutes(r *gin.RouterGroup, handler *Handler, optionalAuth gin.HandlerFunc) {
	jobs := r.Group("/jobs")
	{
		jobs.GET("", handler.ListJobs)
		jobs.GET("/:id", handler.GetJob)
		jobs.GET("/:id/eligibility", optionalAuth, handler.CheckEligibility)
	}
}

// RegisterProtectedRoutes expects r to carry JWT auth. applyLimit throttles
// proposal submission.
func RegisterProtectedRoutes(r *gin.RouterGroup, handler *Handler, applyLimit gin.HandlerFunc) {
	jobs := r.Group("/jobs")
	{
		jobs.POST("", handler.CreateJob)
		jobs.POST("/:id/close", handler.CloseJob)
		jobs.POST("/:id/proposals", applyLimit, handler.SubmitProposal)
		jobs.GET("/:id/proposals", handler.ListJobProposals)
	}

	proposals := r.Group("/proposals")
	{
		proposals.GET("/me", handler.ListMyProposals)
		proposals.PATCH("/:id/status", handler.UpdateProposalStatus)
	}
}
