package handler

import (
	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/model"
	"catalogapi/internal/service"
)

// CreateBookAttachment records one document-file entry for a book. The request
// is multipart: either a "file" part or an "external_url" field, never both.
func CreateBookAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bookID, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		typ := model.AttachmentType(c.FormValue("type"))
		note := c.FormValue("note")
		externalURL := c.FormValue("external_url")
		fh, fileErr := c.FormFile("file")

		hasFile := fileErr == nil && fh != nil
		if hasFile && externalURL != "" {
			return serviceError(c, service.ErrOriginAmbiguous)
		}
		if !hasFile && externalURL == "" {
			return serviceError(c, service.ErrOriginMissing)
		}

		if externalURL != "" {
			a, err := svc.AddURL(c.UserContext(), bookID, service.AttachmentURLInput{
				Type:        typ,
				ExternalURL: externalURL,
				Note:        note,
			})
			if err != nil {
				return serviceError(c, err)
			}
			return c.Status(fiber.StatusCreated).JSON(a)
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
		a, err := svc.AddFile(c.UserContext(), bookID, typ, note, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// ListBookAttachments returns every document-file entry of a book.
func ListBookAttachments(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bookID, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		items, err := svc.ListByBook(c.UserContext(), bookID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(items)
	}
}

// ReplaceAttachmentFile swaps the stored object of a file attachment.
func ReplaceAttachmentFile(svc service.AttachmentService) fiber.Handler {
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
		a, err := svc.ReplaceFile(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(a)
	}
}

// DeleteAttachment removes the entry and, for file origins, the stored object.
func DeleteAttachment(svc service.AttachmentService) fiber.Handler {
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

// DownloadAttachment answers with the attachment's download URL: a presigned
// object URL for stored files, the external link otherwise.
func DownloadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.DownloadURL(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}
