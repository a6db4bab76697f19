package handlers

import (
	"careerhub-api/internal/adapters/http/middleware"
	"careerhub-api/internal/core/services"
	"careerhub-api/internal/pkg/pagination"
	"careerhub-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReferralHandler handles referral endpoints
type ReferralHandler struct {
	referralService *services.ReferralService
	log             *zap.Logger
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(referralService *services.ReferralService, log *zap.Logger) *ReferralHandler {
	return &ReferralHandler{referralService: referralService, log: log}
}

// CreateReferralRequest links a user to a referrer's code
type CreateReferralRequest struct {
	ReferredUserID uint   `json:"referred_user_id"`
	ReferralCode   string `json:"referral_code"`
}

// UpdateReferralStatusRequest carries the new referral status
type UpdateReferralStatusRequest struct {
	Status string `json:"status"`
}

// CreateReferral links a referral (admin only)
// @Summary Create referral
// @Tags Referrals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateReferralRequest true "Referred user and code"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /referrals [post]
func (h *ReferralHandler) CreateReferral(c *fiber.Ctx) error {
	var req CreateReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ReferredUserID == 0 || req.ReferralCode == "" {
		return response.BadRequest(c, "referred_user_id and referral_code are required")
	}

	referral, err := h.referralService.CreateReferral(c.UserContext(), req.ReferredUserID, req.ReferralCode)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Created(c, "Referral created successfully", referral)
}

// ListReferrals lists all referrals (admin only)
// @Summary List referrals
// @Tags Referrals
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /referrals [get]
func (h *ReferralHandler) ListReferrals(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	referrals, total, err := h.referralService.List(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "", pagination.NewResponse(referrals, params, total))
}

// MyReferrals lists referrals made with the caller's code
// @Summary My referrals
// @Tags Referrals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /referrals/my-referrals [get]
func (h *ReferralHandler) MyReferrals(c *fiber.Ctx) error {
	referrals, err := h.referralService.ListMine(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "", referrals)
}

// MyCode returns the caller's referral code, generating it on first use
// @Summary My referral code
// @Tags Referrals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /referrals/my-code [get]
func (h *ReferralHandler) MyCode(c *fiber.Ctx) error {
	code, err := h.referralService.GetOrCreateReferralCode(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "", fiber.Map{"referral_code": code})
}

// GetReferral gets one referral (admin only)
// @Summary Get referral
// @Tags Referrals
// @Produce json
// @Security BearerAuth
// @Param id path int true "Referral ID"
// @Success 200 {object} response.Response
// @Router /referrals/{id} [get]
func (h *ReferralHandler) GetReferral(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid referral ID")
	}

	referral, err := h.referralService.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "", referral)
}

// UpdateReferralStatus approves or rejects a referral (admin only)
// @Summary Update referral status
// @Description Approving awards the referrer once per transition into approved
// @Tags Referrals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Referral ID"
// @Param body body UpdateReferralStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Router /referrals/{id} [patch]
func (h *ReferralHandler) UpdateReferralStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid referral ID")
	}

	var req UpdateReferralStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	referral, err := h.referralService.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Referral status updated", referral)
}
