package handler

import (
	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/service"
)

// Login authenticates credentials and returns a bearer token plus the account.
func Login(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.LoginInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		sess, err := svc.Login(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(sess)
	}
}
