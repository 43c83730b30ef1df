package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalogapi/internal/model"
	"catalogapi/internal/service"
	serviceMocks "catalogapi/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListBooks(t *testing.T) {
	mockSvc := new(serviceMocks.MockBookService)
	app := fiber.New()
	app.Get("/books", ListBooks(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.BookListResult{
			Items: []model.Book{{ID: uuid.New().String(), Title: "Compilers"}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, 10, 0).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/books?limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.BookListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_LIMIT", body.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 10, 0).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateBook(t *testing.T) {
	mockSvc := new(serviceMocks.MockBookService)
	app := fiber.New()
	app.Post("/books", CreateBook(mockSvc))

	body := `{"registration_code":"REG-001","isbn":"9780306406157","title":"Compilers","subject":"CS","topic":"Compilers","edition":1,"publication_year":2006,"authorship":"individual","format":"print"}`

	t.Run("created", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return(&model.Book{ID: "gen-id", ISBN: "9780306406157"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return(nil, service.ErrDuplicateISBN).Once()

		req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "DUPLICATE_ISBN", payload.Error.Code)
	})

	t.Run("invalid isbn", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return(nil, service.ErrInvalidISBN).Once()

		req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "INVALID_ISBN", payload.Error.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return(nil, &service.ValidationError{Field: "Title", Message: "failed required validation"}).Once()

		req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "VALIDATION_FAILED", payload.Error.Code)
	})
}

func TestGetBook(t *testing.T) {
	mockSvc := new(serviceMocks.MockBookService)
	app := fiber.New()
	app.Get("/books/:id", GetBook(mockSvc))

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books/not-a-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "INVALID_ID", payload.Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/books/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSetBookAuthors(t *testing.T) {
	mockSvc := new(serviceMocks.MockBookService)
	app := fiber.New()
	app.Put("/books/:id/authors", SetBookAuthors(mockSvc))

	bookID := uuid.New().String()
	principal := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		mockSvc.On("SetAuthors", mock.Anything, bookID, mock.MatchedBy(func(in service.BookAuthorsInput) bool {
			return in.PrincipalID == principal
		})).Return([]model.BookAuthorLink{
			{BookID: bookID, AuthorID: principal, Role: model.RolePrincipalAuthor},
		}, nil).Once()

		body, _ := json.Marshal(service.BookAuthorsInput{PrincipalID: principal})
		req := httptest.NewRequest(http.MethodPut, "/books/"+bookID+"/authors", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var links []model.BookAuthorLink
		json.NewDecoder(resp.Body).Decode(&links)
		require.Len(t, links, 1)
		assert.Equal(t, model.RolePrincipalAuthor, links[0].Role)
	})

	t.Run("missing principal", func(t *testing.T) {
		mockSvc.On("SetAuthors", mock.Anything, bookID, mock.Anything).
			Return(nil, service.ErrPrincipalMissing).Once()

		req := httptest.NewRequest(http.MethodPut, "/books/"+bookID+"/authors", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "PRINCIPAL_REQUIRED", payload.Error.Code)
	})
}

func TestLogin(t *testing.T) {
	mockSvc := new(serviceMocks.MockSessionService)
	app := fiber.New()
	app.Post("/auth/login", Login(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, service.LoginInput{
			Email:    "ana@ugto.mx",
			Password: "hunter2hunter2",
		}).Return(&service.Session{Token: "signed-token", User: &model.User{ID: "u1"}}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			bytes.NewBufferString(`{"email":"ana@ugto.mx","password":"hunter2hunter2"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var sess service.Session
		json.NewDecoder(resp.Body).Decode(&sess)
		assert.Equal(t, "signed-token", sess.Token)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, mock.Anything).
			Return(nil, service.ErrBadCredentials).Once()

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			bytes.NewBufferString(`{"email":"ana@ugto.mx","password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "INVALID_CREDENTIALS", payload.Error.Code)
	})
}

func TestCreateBookAttachment_OriginRules(t *testing.T) {
	mockSvc := new(serviceMocks.MockAttachmentService)
	app := fiber.New()
	app.Post("/books/:id/attachments", CreateBookAttachment(mockSvc))

	bookID := uuid.New().String()

	multipartBody := func(fields map[string]string, withFile bool) (*bytes.Buffer, string) {
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for k, v := range fields {
			w.WriteField(k, v)
		}
		if withFile {
			fw, _ := w.CreateFormFile("file", "contract.pdf")
			io.WriteString(fw, "pdf bytes")
		}
		w.Close()
		return buf, w.FormDataContentType()
	}

	t.Run("url origin", func(t *testing.T) {
		mockSvc.On("AddURL", mock.Anything, bookID, service.AttachmentURLInput{
			Type:        model.AttachmentPeerReview,
			ExternalURL: "https://repo.example.org/doc",
		}).Return(&model.Attachment{ID: "gen-id", Origin: model.OriginURL}, nil).Once()

		body, ct := multipartBody(map[string]string{
			"type":         "peer-review",
			"external_url": "https://repo.example.org/doc",
		}, false)
		req := httptest.NewRequest(http.MethodPost, "/books/"+bookID+"/attachments", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("file origin", func(t *testing.T) {
		mockSvc.On("AddFile", mock.Anything, bookID, model.AttachmentContract, "signed",
			mock.Anything, "contract.pdf", mock.Anything, mock.Anything).
			Return(&model.Attachment{ID: "gen-id", Origin: model.OriginFile}, nil).Once()

		body, ct := multipartBody(map[string]string{"type": "contract", "note": "signed"}, true)
		req := httptest.NewRequest(http.MethodPost, "/books/"+bookID+"/attachments", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("both file and url", func(t *testing.T) {
		body, ct := multipartBody(map[string]string{
			"type":         "contract",
			"external_url": "https://repo.example.org/doc",
		}, true)
		req := httptest.NewRequest(http.MethodPost, "/books/"+bookID+"/attachments", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "ORIGIN_AMBIGUOUS", payload.Error.Code)
	})

	t.Run("neither file nor url", func(t *testing.T) {
		body, ct := multipartBody(map[string]string{"type": "contract"}, false)
		req := httptest.NewRequest(http.MethodPost, "/books/"+bookID+"/attachments", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "ORIGIN_REQUIRED", payload.Error.Code)
	})

	t.Run("singleton conflict", func(t *testing.T) {
		mockSvc.On("AddFile", mock.Anything, bookID, model.AttachmentContract, "",
			mock.Anything, "contract.pdf", mock.Anything, mock.Anything).
			Return(nil, service.ErrSingletonExists).Once()

		body, ct := multipartBody(map[string]string{"type": "contract"}, true)
		req := httptest.NewRequest(http.MethodPost, "/books/"+bookID+"/attachments", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "ATTACHMENT_EXISTS", payload.Error.Code)
	})
}

func TestSetRequestStatus(t *testing.T) {
	mockSvc := new(serviceMocks.MockRequestService)
	app := fiber.New()
	app.Patch("/requests/:id/status", SetRequestStatus(mockSvc))

	id := uuid.New().String()

	t.Run("conflict on bad transition", func(t *testing.T) {
		mockSvc.On("SetStatus", mock.Anything, id, model.RequestPending).
			Return(nil, service.ErrBadStatusTransition).Once()

		req := httptest.NewRequest(http.MethodPatch, "/requests/"+id+"/status",
			bytes.NewBufferString(`{"status":"pending"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "INVALID_TRANSITION", payload.Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		mockSvc.On("SetStatus", mock.Anything, id, model.RequestApproved).
			Return(&model.Request{ID: id, Status: model.RequestApproved}, nil).Once()

		req := httptest.NewRequest(http.MethodPatch, "/requests/"+id+"/status",
			bytes.NewBufferString(`{"status":"approved"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestExportReport(t *testing.T) {
	mockSvc := new(serviceMocks.MockReportService)
	app := fiber.New()
	app.Get("/reports/:name/export", ExportReport(mockSvc))

	t.Run("pdf download", func(t *testing.T) {
		mockSvc.On("Export", mock.Anything, "books", mock.Anything).
			Return(&service.Export{
				Filename:    "books-20250314.pdf",
				ContentType: "application/pdf",
				Data:        []byte("%PDF-1.4"),
			}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/reports/books/export?format=pdf", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "books-20250314.pdf")
	})

	t.Run("unknown report", func(t *testing.T) {
		mockSvc.On("Export", mock.Anything, "payroll", mock.Anything).
			Return(nil, service.ErrUnknownReport).Once()

		req := httptest.NewRequest(http.MethodGet, "/reports/payroll/export", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListReports(t *testing.T) {
	mockSvc := new(serviceMocks.MockReportService)
	mockSvc.On("Names").Return([]string{"books", "authors"})

	app := fiber.New()
	app.Get("/reports", ListReports(mockSvc))

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string][]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, []string{"books", "authors"}, body["reports"])
}
