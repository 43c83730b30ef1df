package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"catalogapi/internal/service"
)

// ListBooks returns a paginated slice of the catalog.
func ListBooks(svc service.BookService) fiber.Handler {
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

// CreateBook registers a new catalog record.
func CreateBook(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.BookInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		b, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(b)
	}
}

// GetBook fetches one book by ID.
func GetBook(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		b, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(b)
	}
}

// UpdateBook replaces the mutable fields of a book.
func UpdateBook(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.BookInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		b, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(b)
	}
}

// DeleteBook removes a book, its stored files, and its cascaded rows.
func DeleteBook(svc service.BookService) fiber.Handler {
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

// SetBookAuthors replaces the book's authorship set.
func SetBookAuthors(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.BookAuthorsInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		links, err := svc.SetAuthors(c.UserContext(), id, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(links)
	}
}

// GetBookAuthors lists the book's authorship rows.
func GetBookAuthors(svc service.BookService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		links, err := svc.Authors(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(links)
	}
}

// UploadBookCover stores a cover image (multipart field: file).
func UploadBookCover(svc service.BookService) fiber.Handler {
	return bookFileUpload(svc.UploadCover)
}

// UploadBookPDF stores the book's PDF (multipart field: file).
func UploadBookPDF(svc service.BookService) fiber.Handler {
	return bookFileUpload(svc.UploadPDF)
}

func bookFileUpload(upload service.BookFileUploadFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		b, err := upload(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(b)
	}
}

// pathID validates the :id path segment as a UUID.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", err
	}
	return id, nil
}
