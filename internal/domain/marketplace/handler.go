package marketplace

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"photomarket/internal/domain/identity"
	"photomarket/internal/logger"
	"photomarket/internal/middleware"
	"photomarket/internal/pkg/response"
	"photomarket/internal/pkg/validator"
)

// Handler handles job board HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListJobs handles GET /api/v1/jobs
// @Summary List jobs
// @Tags Jobs
// @Produce json
// @Param category query string false "Category"
// @Param status query string false "open or closed"
// @Param client_id query string false "Owner"
// @Success 200 {object} response.Response{data=[]Job}
// @Router /jobs [get]
func (h *Handler) ListJobs(c *gin.Context) {
	filter := JobFilter{
		Category: c.Query("category"),
		Status:   JobStatus(c.Query("status")),
		ClientID: c.Query("client_id"),
	}
	if filter.Status != "" && filter.Status != JobStatusOpen && filter.Status != JobStatusClosed {
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "status must be open or closed")
		return
	}

	jobs, err := h.service.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.internalError(c, "Failed to list jobs", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jobs": jobs})
}

// GetJob handles GET /api/v1/jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.service.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, job)
}

// CheckEligibility handles GET /api/v1/jobs/:id/eligibility (optional auth)
// @Summary Can the caller apply to this job
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Response{data=Decision}
// @Failure 404 {object} response.Response
// @Router /jobs/{id}/eligibility [get]
func (h *Handler) CheckEligibility(c *gin.Context) {
	decision, err := h.service.CheckEligibility(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, decision)
}

// CreateJob handles POST /api/v1/jobs
// @Summary Post a job
// @Tags Jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateJobRequest true "Job"
// @Success 201 {object} response.Response{data=Job}
// @Failure 403 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /jobs [post]
func (h *Handler) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	job, err := h.service.CreateJob(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, job)
}

// CloseJob handles POST /api/v1/jobs/:id/close
func (h *Handler) CloseJob(c *gin.Context) {
	job, err := h.service.CloseJob(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, job)
}

// SubmitProposal handles POST /api/v1/jobs/:id/proposals
// @Summary Apply to a job
// @Description Spends the job's Connects. Denials carry reason, message and next_action.
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param request body SubmitProposalRequest true "Proposal"
// @Success 201 {object} response.Response{data=Proposal}
// @Failure 402 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /jobs/{id}/proposals [post]
func (h *Handler) SubmitProposal(c *gin.Context) {
	var req SubmitProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}
	req.JobID = c.Param("id")
	req.UserID = middleware.UserID(c)

	proposal, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, proposal)
}

// ListJobProposals handles GET /api/v1/jobs/:id/proposals
func (h *Handler) ListJobProposals(c *gin.Context) {
	proposals, err := h.service.ListJobProposals(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"proposals": proposals})
}

// ListMyProposals handles GET /api/v1/proposals/me
func (h *Handler) ListMyProposals(c *gin.Context) {
	proposals, err := h.service.ListMyProposals(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.internalError(c, "Failed to list proposals", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"proposals": proposals})
}

// UpdateProposalStatus handles PATCH /api/v1/proposals/:id/status
func (h *Handler) UpdateProposalStatus(c *gin.Context) {
	var req UpdateProposalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	proposal, err := h.service.UpdateProposalStatus(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, proposal)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	if d, ok := AsDenial(err); ok {
		response.ErrorWithDetails(c, denialStatus(d.Decision.Reason), strings.ToUpper(string(d.Decision.Reason)), d.Decision.Message, d.Decision)
		return
	}

	switch {
	case errors.Is(err, ErrJobNotFound):
		response.Error(c, http.StatusNotFound, "JOB_NOT_FOUND", "Job not found")
	case errors.Is(err, ErrProposalNotFound):
		response.Error(c, http.StatusNotFound, "PROPOSAL_NOT_FOUND", "Proposal not found")
	case errors.Is(err, identity.ErrUserNotFound):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account no longer exists")
	case errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrCoverLetterTooLong),
		errors.Is(err, ErrDeadlineInPast), errors.Is(err, ErrInvalidProposalStatus),
		errors.Is(err, ErrInvalidBudget), errors.Is(err, ErrInvalidConnects):
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotClient):
		response.Error(c, http.StatusForbidden, "NOT_CLIENT", err.Error())
	case errors.Is(err, ErrNotJobOwner):
		response.Error(c, http.StatusForbidden, "NOT_JOB_OWNER", err.Error())
	case errors.Is(err, ErrJobAlreadyClosed):
		response.Error(c, http.StatusConflict, "JOB_ALREADY_CLOSED", err.Error())
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	default:
		h.internalError(c, "Something went wrong", err)
	}
}

func (h *Handler) internalError(c *gin.Context, message string, err error) {
	logger.CtxWithError(c.Request.Context(), message, err, "path", c.FullPath())
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

func denialStatus(reason Reason) int {
	switch reason {
	case ReasonNotAuthenticated:
		return http.StatusUnauthorized
	case ReasonJobClosed, ReasonAlreadyApplied:
		return http.StatusConflict
	case ReasonInsufficientCredits:
		return http.StatusPaymentRequired
	default:
		return http.StatusForbidden
	}
}
