// Package handler contains the HTTP layer: thin Fiber handlers that decode
// requests, call services, and translate service errors into the standard
// error envelope. No business logic lives here.
package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/service"
)

// serviceError maps known service errors onto HTTP status codes and short
// machine-readable codes. Anything unrecognized becomes a 500 without leaking
// internals.
func serviceError(c *fiber.Ctx, err error) error {
	if ve, ok := service.AsValidationError(err); ok {
		return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_FAILED", ve.Error())
	}

	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")

	case errors.Is(err, service.ErrInvalidISBN):
		return writeError(c, fiber.StatusUnprocessableEntity, "INVALID_ISBN", "isbn failed checksum validation")
	case errors.Is(err, service.ErrDuplicateISBN):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_ISBN", "a book with that isbn already exists")
	case errors.Is(err, service.ErrPrincipalMissing):
		return writeError(c, fiber.StatusUnprocessableEntity, "PRINCIPAL_REQUIRED", "a principal author is required")

	case errors.Is(err, service.ErrDuplicateAuthorEmail):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_AUTHOR_EMAIL", "an author with that email already exists")
	case errors.Is(err, service.ErrDuplicateAuthorName):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_AUTHOR_NAME", "an author with that name already exists")
	case errors.Is(err, service.ErrDepartmentRequired),
		errors.Is(err, service.ErrDepartmentInactive),
		errors.Is(err, service.ErrUnitOutsideDepartment),
		errors.Is(err, service.ErrInstitutionRequired),
		errors.Is(err, service.ErrInstitutionForbidden),
		errors.Is(err, service.ErrOrgFieldsForbidden),
		errors.Is(err, service.ErrExternalDomainEmail):
		return writeError(c, fiber.StatusUnprocessableEntity, "INVALID_AFFILIATION", err.Error())

	case errors.Is(err, service.ErrDuplicateUserEmail):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_USER_EMAIL", "a user with that email already exists")

	case errors.Is(err, service.ErrSingletonExists):
		return writeError(c, fiber.StatusConflict, "ATTACHMENT_EXISTS", "an attachment of that category already exists for this book")
	case errors.Is(err, service.ErrOriginAmbiguous):
		return writeError(c, fiber.StatusBadRequest, "ORIGIN_AMBIGUOUS", "provide either a file or an external url, not both")
	case errors.Is(err, service.ErrOriginMissing):
		return writeError(c, fiber.StatusBadRequest, "ORIGIN_REQUIRED", "an attachment requires a file or an external url")
	case errors.Is(err, service.ErrAttachmentNotURL):
		return writeError(c, fiber.StatusUnprocessableEntity, "NOT_A_FILE", "attachment is not a stored file")

	case errors.Is(err, service.ErrBadStatusTransition):
		return writeError(c, fiber.StatusConflict, "INVALID_TRANSITION", "status transition not allowed")

	case errors.Is(err, service.ErrBadCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, service.ErrUserInactive):
		return writeError(c, fiber.StatusForbidden, "ACCOUNT_INACTIVE", "account is deactivated")

	case errors.Is(err, service.ErrUnknownReport):
		return writeError(c, fiber.StatusNotFound, "UNKNOWN_REPORT", "unknown report")
	case errors.Is(err, service.ErrUnknownFormat):
		return writeError(c, fiber.StatusBadRequest, "UNKNOWN_FORMAT", "unknown export format")
	}

	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

var (
	errInvalidLimit  = errors.New("invalid limit")
	errInvalidOffset = errors.New("invalid offset")
)

// pageParams parses limit/offset query values the same way on every list
// endpoint. Callers translate the sentinel errors via pageError.
func pageParams(c *fiber.Ctx) (limit, offset int, err error) {
	limit, err = strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 0, 0, errInvalidLimit
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, errInvalidOffset
	}
	return limit, offset, nil
}

func pageError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errInvalidLimit) {
		return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
}
