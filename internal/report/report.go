// Package report turns repository row sets into formatted tables and renders
// them as PDF or XLSX. Formatting happens once, so both renderings of the same
// table carry identical cell text.
package report

import (
	"strconv"
	"strings"
	"time"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// Format selects an export encoding.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Table is a fully formatted report ready for rendering.
type Table struct {
	Name    string
	Title   string
	Headers []string
	Rows    [][]string
}

const dateLayout = "2006-01-02"

// na substitutes the empty-field placeholder.
func na(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func day(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(dateLayout)
}

// Books lists the plain catalog records.
func Books(items []model.Book) Table {
	t := Table{
		Name:    "books",
		Title:   "Books",
		Headers: []string{"Title", "ISBN", "Subject", "Edition", "Year", "Format", "Authorship"},
	}
	for _, b := range items {
		t.Rows = append(t.Rows, []string{
			b.Title,
			na(b.ISBN),
			na(b.Subject),
			strconv.Itoa(b.Edition),
			strconv.Itoa(b.PublicationYear),
			string(b.Format),
			string(b.Authorship),
		})
	}
	return t
}

// Authors lists registered authors with their affiliation.
func Authors(items []model.Author) Table {
	t := Table{
		Name:    "authors",
		Title:   "Authors",
		Headers: []string{"Full name", "Email", "Affiliation", "Institution", "Registered"},
	}
	for _, a := range items {
		affiliation := "Internal"
		institution := ""
		if a.InstitutionType == model.InstitutionExternal {
			affiliation = "External"
			institution = a.ExternalInstitution
		}
		t.Rows = append(t.Rows, []string{
			a.FullName,
			a.Email,
			affiliation,
			na(institution),
			day(a.CreatedAt),
		})
	}
	return t
}

// Users lists platform accounts. Password material never reaches a report.
func Users(items []model.User) Table {
	t := Table{
		Name:    "users",
		Title:   "Users",
		Headers: []string{"Name", "Email", "Role", "Active", "Author", "Registered"},
	}
	for _, u := range items {
		t.Rows = append(t.Rows, []string{
			u.FirstName + " " + u.LastName,
			u.Email,
			string(u.Role),
			yesNo(u.Active),
			yesNo(u.IsAuthor),
			day(u.CreatedAt),
		})
	}
	return t
}

// Readers lists external library readers.
func Readers(items []model.Reader) Table {
	t := Table{
		Name:    "readers",
		Title:   "Readers",
		Headers: []string{"Name", "Email", "Institution", "Registered"},
	}
	for _, r := range items {
		t.Rows = append(t.Rows, []string{
			r.FirstName + " " + r.LastName,
			r.Email,
			na(r.Institution),
			day(r.CreatedAt),
		})
	}
	return t
}

// Requests lists book requests with reader and title resolved.
func Requests(items []repository.RequestRow) Table {
	t := Table{
		Name:    "requests",
		Title:   "Book Requests",
		Headers: []string{"Reader", "Book", "Reason", "Status", "Requested"},
	}
	for _, r := range items {
		t.Rows = append(t.Rows, []string{
			na(r.ReaderName),
			na(r.BookTitle),
			na(r.Request.Reason),
			string(r.Request.Status),
			day(r.Request.CreatedAt),
		})
	}
	return t
}

// Tickets lists support tickets.
func Tickets(items []model.SupportTicket) Table {
	t := Table{
		Name:    "tickets",
		Title:   "Support Tickets",
		Headers: []string{"Email", "Subject", "Status", "Opened"},
	}
	for _, tk := range items {
		t.Rows = append(t.Rows, []string{
			tk.Email,
			tk.Subject,
			string(tk.Status),
			day(tk.CreatedAt),
		})
	}
	return t
}

// Catalog lists books joined with their authorship lines.
func Catalog(items []repository.CatalogRow) Table {
	t := Table{
		Name:    "catalog",
		Title:   "Catalog",
		Headers: []string{"Title", "ISBN", "Principal author", "Co-authors", "Year"},
	}
	for _, c := range items {
		t.Rows = append(t.Rows, []string{
			c.Title,
			na(c.ISBN),
			na(c.Principal),
			na(strings.Join(c.CoAuthors, "; ")),
			strconv.Itoa(c.Year),
		})
	}
	return t
}

// Attachments lists book file entries with their parent title.
func Attachments(items []repository.AttachmentRow) Table {
	t := Table{
		Name:    "attachments",
		Title:   "Book Files",
		Headers: []string{"Book", "Category", "Origin", "Note", "Added"},
	}
	for _, r := range items {
		t.Rows = append(t.Rows, []string{
			na(r.BookTitle),
			string(r.Attachment.Type),
			string(r.Attachment.Origin),
			na(r.Attachment.Note),
			day(r.Attachment.CreatedAt),
		})
	}
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
