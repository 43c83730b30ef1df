package handler

import (
	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/model"
	"catalogapi/internal/service"
)

// ListRequests returns a paginated slice of book requests.
func ListRequests(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pageParams(c)
		if err != nil {
			return pageError(c, err)
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateRequest files a new book request; it always starts pending.
func CreateRequest(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RequestInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		r, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

// GetRequest fetches one request by ID.
func GetRequest(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		r, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(r)
	}
}

// SetRequestStatus moves a request through its workflow.
func SetRequestStatus(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body struct {
			Status model.RequestStatus `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		r, err := svc.SetStatus(c.UserContext(), id, body.Status)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(r)
	}
}

// DeleteRequest removes a request.
func DeleteRequest(svc service.RequestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
