package handlers

import (
	"strings"

	"careerhub-api/internal/adapters/http/middleware"
	"careerhub-api/internal/core/services"
	"careerhub-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CertificateHandler handles certificate endpoints
type CertificateHandler struct {
	certService *services.CertificateService
	log         *zap.Logger
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(certService *services.CertificateService, log *zap.Logger) *CertificateHandler {
	return &CertificateHandler{certService: certService, log: log}
}

// IssueCertificateRequest names the user and course to certify
type IssueCertificateRequest struct {
	UserID   uint `json:"user_id"`
	CourseID uint `json:"course_id"`
}

// IssueCertificate issues a certificate manually (admin only)
// @Summary Issue certificate
// @Tags Certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body IssueCertificateRequest true "User and course"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /certificates [post]
func (h *CertificateHandler) IssueCertificate(c *fiber.Ctx) error {
	var req IssueCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.UserID == 0 || req.CourseID == 0 {
		return response.BadRequest(c, "user_id and course_id are required")
	}

	cert, err := h.certService.Issue(c.UserContext(), req.UserID, req.CourseID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Created(c, "Certificate issued successfully", cert)
}

// MyCertificates lists the caller's certificates
// @Summary My certificates
// @Tags Certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /certificates/my-certificates [get]
func (h *CertificateHandler) MyCertificates(c *fiber.Ctx) error {
	certs, err := h.certService.ListByUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "", certs)
}

// VerifyCertificate is the public verification lookup
// @Summary Verify certificate
// @Tags Certificates
// @Produce json
// @Param certificateId path string true "Public certificate ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /certificates/verify/{certificateId} [get]
func (h *CertificateHandler) VerifyCertificate(c *fiber.Ctx) error {
	certificateID := strings.TrimSpace(c.Params("certificateId"))
	if certificateID == "" {
		return response.BadRequest(c, "Certificate ID is required")
	}

	verification, err := h.certService.Verify(c.UserContext(), certificateID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Certificate is valid", verification)
}

// GetCertificate gets one certificate (owner or admin)
// @Summary Get certificate
// @Tags Certificates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Certificate row ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /certificates/{id} [get]
func (h *CertificateHandler) GetCertificate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid certificate ID")
	}

	cert, err := h.certService.GetByID(c.UserContext(), id, middleware.UserID(c), middleware.Role(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "", cert)
}

// RevokeCertificate deletes a certificate (admin only)
// @Summary Revoke certificate
// @Tags Certificates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Certificate row ID"
// @Success 200 {object} response.Response
// @Router /certificates/{id} [delete]
func (h *CertificateHandler) RevokeCertificate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid certificate ID")
	}

	if err := h.certService.Revoke(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Certificate revoked successfully", nil)
}
