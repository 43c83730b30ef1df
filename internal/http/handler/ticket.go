package handler

import (
	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/http/middleware"
	"catalogapi/internal/model"
	"catalogapi/internal/service"
)

// ListTickets returns a paginated slice of support tickets.
func ListTickets(svc service.TicketService) fiber.Handler {
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

// CreateTicket opens a support ticket. When the caller is authenticated the
// ticket is tied to their account.
func CreateTicket(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.TicketInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		if claims, ok := middleware.ClaimsFromCtx(c); ok {
			in.UserID = claims.UserID
		}
		tk, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(tk)
	}
}

// GetTicket fetches one ticket by ID.
func GetTicket(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		tk, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(tk)
	}
}

// SetTicketStatus moves a ticket through its workflow.
func SetTicketStatus(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body struct {
			Status model.TicketStatus `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		tk, err := svc.SetStatus(c.UserContext(), id, body.Status)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(tk)
	}
}

// DeleteTicket removes a ticket.
func DeleteTicket(svc service.TicketService) fiber.Handler {
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
