package handlers

import (
	"careerhub-api/internal/adapters/http/middleware"
	"careerhub-api/internal/core/services"
	"careerhub-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProgressHandler handles course progress endpoints
type ProgressHandler struct {
	progressService *services.ProgressService
	log             *zap.Logger
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService *services.ProgressService, log *zap.Logger) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, log: log}
}

// CompleteModuleRequest marks one module of a course as done
type CompleteModuleRequest struct {
	CourseID uint `json:"course_id"`
	ModuleID uint `json:"module_id"`
}

// CompleteModule records a module completion for the caller
// @Summary Complete module
// @Description Idempotent. A certificate is issued in the background once every module is done.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CompleteModuleRequest true "Course and module"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /progress/complete-module [post]
func (h *ProgressHandler) CompleteModule(c *fiber.Ctx) error {
	var req CompleteModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CourseID == 0 || req.ModuleID == 0 {
		return response.BadRequest(c, "course_id and module_id are required")
	}

	progress, err := h.progressService.RecordModuleCompletion(c.UserContext(), middleware.UserID(c), req.CourseID, req.ModuleID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Module marked as completed", progress)
}

// MyCoursesProgress lists the caller's progress across courses
// @Summary My courses progress
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /progress/my-courses-progress [get]
func (h *ProgressHandler) MyCoursesProgress(c *fiber.Ctx) error {
	summaries, err := h.progressService.ListMyCourses(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "", summaries)
}

// GetCourseProgress gets the caller's progress on one course
// @Summary Course progress
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /progress/{courseId} [get]
func (h *ProgressHandler) GetCourseProgress(c *fiber.Ctx) error {
	courseID, ok := paramID(c, "courseId")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	progress, err := h.progressService.GetCourseProgress(c.UserContext(), middleware.UserID(c), courseID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "", progress)
}
