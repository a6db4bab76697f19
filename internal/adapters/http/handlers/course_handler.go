package handlers

import (
	"careerhub-api/internal/adapters/http/middleware"
	"careerhub-api/internal/core/services"
	"careerhub-api/internal/pkg/pagination"
	"careerhub-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CourseHandler handles course and module endpoints
type CourseHandler struct {
	courseService *services.CourseService
	log           *zap.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *services.CourseService, log *zap.Logger) *CourseHandler {
	return &CourseHandler{courseService: courseService, log: log}
}

func actor(c *fiber.Ctx) services.Actor {
	return services.Actor{UserID: middleware.UserID(c), Role: middleware.Role(c)}
}

// ListCourses lists courses
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param category query string false "Category filter"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	courses, total, err := h.courseService.List(c.UserContext(), c.Query("category"), params.Offset, params.Limit)
	if err != nil {
		return writeError(c, h.log, err)
	}

	return response.Success(c, "", pagination.NewResponse(courses, params, total))
}

// GetCourse gets a course with its ordered modules
// @Summary Get course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.courseService.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "", course)
}

// CreateCourse creates a course owned by the caller
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CourseInput true "Course data"
// @Success 201 {object} response.Response
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req services.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.courseService.Create(c.UserContext(), actor(c), &req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Created(c, "Course created successfully", course)
}

// UpdateCourse updates course fields
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body services.UpdateCourseInput true "Changes"
// @Success 200 {object} response.Response
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	var req services.UpdateCourseInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.courseService.Update(c.UserContext(), actor(c), id, &req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Course updated successfully", course)
}

// DeleteCourse deletes a course and its modules
// @Summary Delete course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} response.Response
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	if err := h.courseService.Delete(c.UserContext(), actor(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Course deleted successfully", nil)
}

// AddModule appends a module to a course
// @Summary Add module
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body services.ModuleInput true "Module data"
// @Success 201 {object} response.Response
// @Router /courses/{id}/modules [post]
func (h *CourseHandler) AddModule(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	var req services.ModuleInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.courseService.AddModule(c.UserContext(), actor(c), id, &req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Created(c, "Module added successfully", course)
}

// UpdateModule edits a module in place
// @Summary Update module
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param moduleId path int true "Module ID"
// @Param body body services.ModuleInput true "Module data"
// @Success 200 {object} response.Response
// @Router /courses/{id}/modules/{moduleId} [put]
func (h *CourseHandler) UpdateModule(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}
	moduleID, ok := paramID(c, "moduleId")
	if !ok {
		return response.BadRequest(c, "Invalid module ID")
	}

	var req services.ModuleInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.courseService.UpdateModule(c.UserContext(), actor(c), id, moduleID, &req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Module updated successfully", course)
}

// RemoveModule deletes a module from a course
// @Summary Remove module
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param moduleId path int true "Module ID"
// @Success 200 {object} response.Response
// @Router /courses/{id}/modules/{moduleId} [delete]
func (h *CourseHandler) RemoveModule(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}
	moduleID, ok := paramID(c, "moduleId")
	if !ok {
		return response.BadRequest(c, "Invalid module ID")
	}

	course, err := h.courseService.RemoveModule(c.UserContext(), actor(c), id, moduleID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Module removed successfully", course)
}
