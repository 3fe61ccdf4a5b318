package handlers

import (
	"github.com/gofiber/fiber/v2"

	"userapi/internal/apperrors"
	"userapi/internal/services"
	"userapi/internal/validators"
	"userapi/pkg/response"
)

// UserHandler handles HTTP requests for the user resource. Each handler
// validates, delegates to the service and shapes the success envelope;
// errors propagate to the central error handler.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the user routes with the Fiber router.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	users := router.Group("/users")
	users.Get("/", h.HandleList)
	users.Get("/:id", h.HandleGetByID)
	users.Post("/", h.HandleCreate)
	users.Put("/:id", h.HandleUpdate)
	users.Patch("/:id", h.HandleUpdate)
	users.Delete("/:id", h.HandleDelete)
}

// HandleList returns a paginated, optionally filtered list of users.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	q, err := validators.ParseListQuery(c.Query("page"), c.Query("limit"), c.Query("search"))
	if err != nil {
		return err
	}

	page, err := h.service.FindAll(q)
	if err != nil {
		return err
	}

	return response.SuccessWithMeta(c, "Users retrieved successfully", page.Users, response.Meta{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// HandleGetByID returns a single user.
func (h *UserHandler) HandleGetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := validators.ValidateID(id); err != nil {
		return err
	}

	user, err := h.service.FindByID(id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "User retrieved successfully", user)
}

// HandleCreate creates a new user.
func (h *UserHandler) HandleCreate(c *fiber.Ctx) error {
	var req validators.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.New(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validators.ValidateCreate(&req); err != nil {
		return err
	}

	user, err := h.service.Create(&req)
	if err != nil {
		return err
	}
	return response.Created(c, "User created successfully", user)
}

// HandleUpdate applies a full or partial update; PUT and PATCH share it.
func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := validators.ValidateID(id); err != nil {
		return err
	}

	var req validators.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.New(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validators.ValidateUpdate(&req); err != nil {
		return err
	}

	user, err := h.service.Update(id, &req)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "User updated successfully", user)
}

// HandleDelete removes a user.
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := validators.ValidateID(id); err != nil {
		return err
	}

	if err := h.service.Delete(id); err != nil {
		return err
	}
	return response.NoContent(c)
}
