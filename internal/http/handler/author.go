package handler

import (
	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/service"
)

// ListAuthors returns a paginated slice of registered authors.
func ListAuthors(svc service.AuthorService) fiber.Handler {
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

// CreateAuthor registers an author, running the affiliation checks.
func CreateAuthor(svc service.AuthorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.AuthorInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		a, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// GetAuthor fetches one author by ID.
func GetAuthor(svc service.AuthorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		a, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(a)
	}
}

// UpdateAuthor replaces an author's fields, re-running the affiliation checks.
func UpdateAuthor(svc service.AuthorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.AuthorInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		a, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(a)
	}
}

// DeleteAuthor removes an author and unflags any linked platform account.
func DeleteAuthor(svc service.AuthorService) fiber.Handler {
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

// ListDepartments returns the active department lookup list.
func ListDepartments(svc service.AuthorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		depts, err := svc.Departments(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(depts)
	}
}

// ListDepartmentUnits returns the academic units of one department.
func ListDepartmentUnits(svc service.AuthorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		units, err := svc.UnitsByDepartment(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(units)
	}
}
