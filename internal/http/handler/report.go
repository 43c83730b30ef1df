package handler

import (
	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/report"
	"catalogapi/internal/service"
)

// ListReports returns the names of the available exports.
func ListReports(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"reports": svc.Names()})
	}
}

// ExportReport renders the named report as a download. The format query
// parameter selects pdf (default) or xlsx.
func ExportReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		format := report.Format(c.Query("format", string(report.FormatPDF)))

		out, err := svc.Export(c.UserContext(), name, format)
		if err != nil {
			return serviceError(c, err)
		}
		c.Set(fiber.HeaderContentType, out.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+out.Filename+`"`)
		return c.Send(out.Data)
	}
}
