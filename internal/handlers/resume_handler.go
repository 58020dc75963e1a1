package handlers

import (
	"strings"

	"resumebuilder/internal/apperr"
	"resumebuilder/internal/logger"
	"resumebuilder/internal/models"
	"resumebuilder/internal/services"

	"github.com/gofiber/fiber/v2"
	"gopkg.in/yaml.v3"
)

// ResumeHandler handles HTTP requests for resumes.
type ResumeHandler struct {
	service *services.ResumeService
	log     *logger.Logger
}

// NewResumeHandler creates a new ResumeHandler.
func NewResumeHandler(service *services.ResumeService, log *logger.Logger) *ResumeHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ResumeHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the resume routes with the Fiber app.
func (h *ResumeHandler) RegisterRoutes(router fiber.Router) {
	resumeRoutes := router.Group("/resumes")
	resumeRoutes.Post("/", h.HandleCreateResume)
	resumeRoutes.Get("/", h.HandleGetResumes)
	resumeRoutes.Get("/:id", h.HandleGetResumeByID)
	resumeRoutes.Delete("/:id", h.HandleDeleteResume)
	resumeRoutes.Get("/:id/pdf", h.HandleGetResumePDF)
	resumeRoutes.Get("/:id/preview.png", h.HandleGetResumePreview)
	resumeRoutes.Get("/:id/layout", h.HandleGetResumeLayout)
}

// HandleCreateResume stores a new resume and returns its id.
func (h *ResumeHandler) HandleCreateResume(c *fiber.Ctx) error {
	var input models.ResumeInput
	if err := c.BodyParser(&input); err != nil {
		h.log.Debug("error parsing resume request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	id, err := h.service.CreateResume(c.UserContext(), input)
	if err != nil {
		return h.fail(c, "Could not create resume", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"id":      id,
	})
}

// HandleGetResumes lists resume headers, newest first.
func (h *ResumeHandler) HandleGetResumes(c *fiber.Ctx) error {
	resumes, err := h.service.ListResumes(c.UserContext())
	if err != nil {
		return h.fail(c, "Could not retrieve resumes", err)
	}
	return c.JSON(resumes)
}

// HandleGetResumeByID returns the full aggregate as JSON, or as YAML when
// ?format=yaml is given.
func (h *ResumeHandler) HandleGetResumeByID(c *fiber.Ctx) error {
	id := c.Params("id")
	agg, err := h.service.GetResume(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "Could not retrieve resume", err)
	}

	if strings.EqualFold(c.Query("format"), "yaml") {
		out, err := yaml.Marshal(agg)
		if err != nil {
			return h.fail(c, "Could not encode resume", err)
		}
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(out)
	}
	return c.JSON(agg)
}

// HandleDeleteResume removes a resume. Unknown ids are not an error.
func (h *ResumeHandler) HandleDeleteResume(c *fiber.Ctx) error {
	if err := h.service.DeleteResume(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, "Could not delete resume", err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleGetResumePDF streams the rendered resume as a PDF attachment.
func (h *ResumeHandler) HandleGetResumePDF(c *fiber.Ctx) error {
	doc, err := h.service.RenderResume(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Could not generate PDF", err)
	}
	c.Set(fiber.HeaderContentDisposition, attachment(doc.Filename))
	c.Set(fiber.HeaderContentType, doc.ContentType)
	return c.Send(doc.Data)
}

// HandleGetResumePreview returns the first page as a PNG image.
func (h *ResumeHandler) HandleGetResumePreview(c *fiber.Ctx) error {
	doc, err := h.service.PreviewResume(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Could not generate preview", err)
	}
	c.Set(fiber.HeaderContentType, doc.ContentType)
	return c.Send(doc.Data)
}

// HandleGetResumeLayout returns the draw instructions of the resume.
func (h *ResumeHandler) HandleGetResumeLayout(c *fiber.Ctx) error {
	doc, err := h.service.Layout(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Could not lay out resume", err)
	}
	return c.JSON(doc)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// attachment builds a Content-Disposition value that keeps the filename
// intact, including any path separators taken from the resume name.
func attachment(filename string) string {
	return `attachment; filename="` + quoteEscaper.Replace(filename) + `"`
}

// fail translates the error taxonomy into a status code and JSON body.
func (h *ResumeHandler) fail(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case apperr.IsValidation(err):
		status = fiber.StatusBadRequest
		message = "Validation failed"
	case apperr.IsNotFound(err):
		status = fiber.StatusNotFound
		message = "Resume not found"
	}

	if status == fiber.StatusInternalServerError {
		h.log.Error(message, "method", c.Method(), "path", c.Path(), "error", err)
	} else {
		h.log.Debug(message, "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
