package model

import "time"

// AuthorshipType classifies how a book was authored.
type AuthorshipType string

const (
	AuthorshipIndividual AuthorshipType = "individual"
	AuthorshipCoAuthored AuthorshipType = "co-authored"
	AuthorshipCollective AuthorshipType = "collective"
)

// BookFormat enumerates the publication formats handled by the catalog.
type BookFormat string

const (
	FormatPrint                BookFormat = "print"
	FormatPrintOnDemand        BookFormat = "print-on-demand"
	FormatElectronicOpen       BookFormat = "electronic-open"
	FormatElectronicCommercial BookFormat = "electronic-commercial"
	FormatOther                BookFormat = "other"
)

// Book represents a catalog record in the libros table.
// This is a pure domain model with no database-specific dependencies or tags.
type Book struct {
	ID               string         `json:"id"`
	RegistrationCode string         `json:"registration_code"`
	ISBN             string         `json:"isbn"`
	DOI              string         `json:"doi,omitempty"`
	Title            string         `json:"title"`
	Subtitle         string         `json:"subtitle,omitempty"`
	Subject          string         `json:"subject"`
	Topic            string         `json:"topic"`
	Collection       string         `json:"collection,omitempty"`
	Edition          int            `json:"edition"`
	PublicationYear  int            `json:"publication_year"`
	PageCount        int            `json:"page_count"`
	Authorship       AuthorshipType `json:"authorship"`
	Format           BookFormat     `json:"format"`
	CoverPath        string         `json:"cover_path,omitempty"`
	PDFPath          string         `json:"pdf_path,omitempty"`
	Synopsis         string         `json:"synopsis"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
