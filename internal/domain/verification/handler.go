package verification

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"photomarket/internal/domain/identity"
	"photomarket/internal/middleware"
	"photomarket/internal/pkg/response"
	"photomarket/internal/pkg/validator"
)

// UserDirectory resolves the requesting account.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*identity.User, error)
}

type Handler struct {
	registry *Registry
	users    UserDirectory
}

func NewHandler(registry *Registry, users UserDirectory) *Handler {
	return &Handler{registry: registry, users: users}
}

// SubmitRequest handles POST /api/v1/verification/requests
// @Summary Request the verified badge
// @Tags Verification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitRequestBody true "Message to the reviewers"
// @Success 201 {object} response.Response{data=Request}
// @Failure 403 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /verification/requests [post]
func (h *Handler) SubmitRequest(c *gin.Context) {
	var body SubmitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&body); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	u, err := h.users.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account no longer exists")
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load account")
		return
	}
	if u.Role != identity.RoleCreative {
		response.Error(c, http.StatusForbidden, "NOT_CREATIVE", ErrNotCreative.Error())
		return
	}

	req, err := h.registry.SubmitRequest(c.Request.Context(), u.ID, u.Name, u.Email, body.Message)
	if err != nil {
		if errors.Is(err, ErrMessageRequired) {
			response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit request")
		return
	}

	response.Success(c, http.StatusCreated, req)
}

// GetMyStatus handles GET /api/v1/verification/me
func (h *Handler) GetMyStatus(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	verified, err := h.registry.IsVerified(ctx, userID)
	if err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load verification")
		return
	}

	out := StatusResponse{Verified: verified}
	req, err := h.registry.GetRequestForUser(ctx, userID)
	switch {
	case err == nil:
		out.Request = req
	case !errors.Is(err, ErrRequestNotFound):
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load verification")
		return
	}

	response.Success(c, http.StatusOK, out)
}

// ListRequests handles GET /api/v1/admin/verification/requests
// @Summary List verification requests
// @Tags Admin Verification
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or denied"
// @Success 200 {object} response.Response{data=[]Request}
// @Router /admin/verification/requests [get]
func (h *Handler) ListRequests(c *gin.Context) {
	list, err := h.registry.ListRequests(c.Request.Context(), RequestStatus(c.Query("status")))
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			response.Error(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list requests")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"requests": list})
}

// ResolveRequest handles POST /api/v1/admin/verification/requests/:id/resolve
func (h *Handler) ResolveRequest(c *gin.Context) {
	var body ResolveRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&body); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	req, err := h.registry.ResolveRequest(c.Request.Context(), c.Param("id"), *body.Approved)
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			response.Error(c, http.StatusNotFound, "REQUEST_NOT_FOUND", err.Error())
		case errors.Is(err, ErrRequestAlreadyResolved):
			response.Error(c, http.StatusConflict, "REQUEST_ALREADY_RESOLVED", err.Error())
		default:
			response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve request")
		}
		return
	}

	response.Success(c, http.StatusOK, req)
}

// SetVerification handles PUT /api/v1/admin/verification/users/:userId
func (h *Handler) SetVerification(c *gin.Context) {
	var body SetVerificationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&body); errs != nil {
		response.CustomError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", errs)
		return
	}

	userID := c.Param("userId")
	if _, err := h.users.GetByID(c.Request.Context(), userID); err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user")
		return
	}

	if err := h.registry.SetVerification(c.Request.Context(), userID, *body.Verified); err != nil {
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update verification")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user_id": userID, "verified": *body.Verified})
}
