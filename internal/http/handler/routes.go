package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/auth"
	"catalogapi/internal/http/middleware"
	"catalogapi/internal/realtime"
	"catalogapi/internal/service"
)

// Services bundles everything the route table needs.
type Services struct {
	Session     service.SessionService
	Books       service.BookService
	Authors     service.AuthorService
	Attachments service.AttachmentService
	Users       service.UserService
	Readers     service.ReaderService
	Requests    service.RequestService
	Tickets     service.TicketService
	Reports     service.ReportService
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app. Every
// route beyond login, health, and the public ticket form requires a session;
// writes additionally require the matching capability.
func RegisterRoutes(app *fiber.App, db *sql.DB, issuer *auth.TokenIssuer, hub *realtime.Hub, svcs Services) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/auth/login", Login(svcs.Session))

	// The support form is public; a valid token just ties the ticket to the
	// caller's account.
	app.Post("/tickets", middleware.OptionalAuth(issuer), CreateTicket(svcs.Tickets))

	authed := app.Group("", middleware.RequireAuth(issuer))
	read := middleware.RequireCapability(auth.CapCatalogRead)

	// Realtime row-change stream.
	authed.Get("/events", EventsUpgrade(), Events(hub))

	// Books.
	booksWrite := middleware.RequireCapability(auth.CapBooksWrite)
	authed.Get("/books", read, ListBooks(svcs.Books))
	authed.Post("/books", booksWrite, CreateBook(svcs.Books))
	authed.Get("/books/:id", read, GetBook(svcs.Books))
	authed.Put("/books/:id", booksWrite, UpdateBook(svcs.Books))
	authed.Delete("/books/:id", booksWrite, DeleteBook(svcs.Books))
	authed.Get("/books/:id/authors", read, GetBookAuthors(svcs.Books))
	authed.Put("/books/:id/authors", booksWrite, SetBookAuthors(svcs.Books))
	authed.Post("/books/:id/cover", booksWrite, UploadBookCover(svcs.Books))
	authed.Post("/books/:id/pdf", booksWrite, UploadBookPDF(svcs.Books))

	// Attachments (expediente). Reads carry their own capability because the
	// file contents are more sensitive than catalog metadata.
	attRead := middleware.RequireCapability(auth.CapAttachmentsRead)
	attWrite := middleware.RequireCapability(auth.CapAttachmentsWrite)
	authed.Get("/books/:id/attachments", attRead, ListBookAttachments(svcs.Attachments))
	authed.Post("/books/:id/attachments", attWrite, CreateBookAttachment(svcs.Attachments))
	authed.Put("/attachments/:id/file", attWrite, ReplaceAttachmentFile(svcs.Attachments))
	authed.Delete("/attachments/:id", attWrite, DeleteAttachment(svcs.Attachments))
	authed.Get("/attachments/:id/download", attRead, DownloadAttachment(svcs.Attachments))

	// Authors and the affiliation lookups.
	authorsWrite := middleware.RequireCapability(auth.CapAuthorsWrite)
	authed.Get("/authors", read, ListAuthors(svcs.Authors))
	authed.Post("/authors", authorsWrite, CreateAuthor(svcs.Authors))
	authed.Get("/authors/:id", read, GetAuthor(svcs.Authors))
	authed.Put("/authors/:id", authorsWrite, UpdateAuthor(svcs.Authors))
	authed.Delete("/authors/:id", authorsWrite, DeleteAuthor(svcs.Authors))
	authed.Get("/departments", read, ListDepartments(svcs.Authors))
	authed.Get("/departments/:id/units", read, ListDepartmentUnits(svcs.Authors))

	// Platform accounts.
	usersManage := middleware.RequireCapability(auth.CapUsersManage)
	authed.Get("/users", usersManage, ListUsers(svcs.Users))
	authed.Post("/users", usersManage, CreateUser(svcs.Users))
	authed.Get("/users/:id", usersManage, GetUser(svcs.Users))
	authed.Put("/users/:id", usersManage, UpdateUser(svcs.Users))
	authed.Delete("/users/:id", usersManage, DeleteUser(svcs.Users))
	authed.Post("/users/:id/photo", usersManage, UploadUserPhoto(svcs.Users))
	authed.Get("/users/:id/photo", usersManage, GetUserPhoto(svcs.Users))

	// External readers.
	readersWrite := middleware.RequireCapability(auth.CapReadersWrite)
	authed.Get("/readers", read, ListReaders(svcs.Readers))
	authed.Post("/readers", readersWrite, CreateReader(svcs.Readers))
	authed.Get("/readers/:id", read, GetReader(svcs.Readers))
	authed.Put("/readers/:id", readersWrite, UpdateReader(svcs.Readers))
	authed.Delete("/readers/:id", readersWrite, DeleteReader(svcs.Readers))

	// Book requests: anyone with a session may file one, deciding them is an
	// editor task.
	requestsWrite := middleware.RequireCapability(auth.CapRequestsWrite)
	requestsManage := middleware.RequireCapability(auth.CapRequestsManage)
	authed.Get("/requests", read, ListRequests(svcs.Requests))
	authed.Post("/requests", requestsWrite, CreateRequest(svcs.Requests))
	authed.Get("/requests/:id", read, GetRequest(svcs.Requests))
	authed.Patch("/requests/:id/status", requestsManage, SetRequestStatus(svcs.Requests))
	authed.Delete("/requests/:id", requestsManage, DeleteRequest(svcs.Requests))

	// Support tickets beyond the public form.
	ticketsManage := middleware.RequireCapability(auth.CapTicketsManage)
	authed.Get("/tickets", ticketsManage, ListTickets(svcs.Tickets))
	authed.Get("/tickets/:id", ticketsManage, GetTicket(svcs.Tickets))
	authed.Patch("/tickets/:id/status", ticketsManage, SetTicketStatus(svcs.Tickets))
	authed.Delete("/tickets/:id", ticketsManage, DeleteTicket(svcs.Tickets))

	// Report exports.
	reportsExport := middleware.RequireCapability(auth.CapReportsExport)
	authed.Get("/reports", reportsExport, ListReports(svcs.Reports))
	authed.Get("/reports/:name/export", reportsExport, ExportReport(svcs.Reports))
}
