package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalogapi/internal/report"
	"catalogapi/internal/repository"
)

var (
	ErrUnknownReport = errors.New("unknown report")
	ErrUnknownFormat = errors.New("unknown export format")
)

// Export is a rendered report ready to be sent as a download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService renders the named report in the requested format.
type ReportService interface {
	Export(ctx context.Context, name string, format report.Format) (*Export, error)
	Names() []string
}

type reportService struct {
	rows repository.ReportRepository
}

// NewReportService constructs a ReportService.
func NewReportService(rows repository.ReportRepository) ReportService {
	return &reportService{rows: rows}
}

// reportNames is the exported order shown to clients.
var reportNames = []string{
	"books", "authors", "users", "readers",
	"requests", "tickets", "catalog", "attachments",
}

func (s *reportService) Names() []string {
	out := make([]string, len(reportNames))
	copy(out, reportNames)
	return out
}

func (s *reportService) table(ctx context.Context, name string) (report.Table, error) {
	switch name {
	case "books":
		rows, err := s.rows.BookRows(ctx)
		if err != nil {
			return report.Table{}, err
		}
		return report.Books(rows), nil
	case "authors":
		rows, err := s.rows.AuthorRows(ctx)
		if err != nil {
			return report.Table{}, err
		}
		return report.Authors(rows), nil
	case "users":
		rows, err := s.rows.UserRows(ctx)
		if err != nil {
			return report.Table{}, err
		}
		return report.Users(rows), nil
	case "readers":
		rows, err := s.rows.ReaderRows(ctx)
		if err != nil {
			return report.Table{}, err
		}
		return report.Readers(rows), nil
	case "requests":
		rows, err := s.rows.RequestRows(ctx)
		if err != nil {
			return report.Table{}, err
		}
		return report.Requests(rows), nil
	case "tickets":
		rows, err := s.rows.TicketRows(ctx)
		if err != nil {
			return report.Table{}, err
		}
		return report.Tickets(rows), nil
	case "catalog":
		rows, err := s.rows.CatalogRows(ctx)
		if err != nil {
			return report.Table{}, err
		}
		return report.Catalog(rows), nil
	case "attachments":
		rows, err := s.rows.AttachmentRows(ctx)
		if err != nil {
			return report.Table{}, err
		}
		return report.Attachments(rows), nil
	default:
		return report.Table{}, ErrUnknownReport
	}
}

func (s *reportService) Export(ctx context.Context, name string, format report.Format) (*Export, error) {
	tbl, err := s.table(ctx, name)
	if err != nil {
		return nil, err
	}

	stamp := time.Now().Format("20060102")
	switch format {
	case report.FormatPDF:
		data, err := report.RenderPDF(tbl)
		if err != nil {
			return nil, err
		}
		return &Export{
			Filename:    fmt.Sprintf("%s-%s.pdf", tbl.Name, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	case report.FormatXLSX:
		data, err := report.RenderXLSX(tbl)
		if err != nil {
			return nil, err
		}
		return &Export{
			Filename:    fmt.Sprintf("%s-%s.xlsx", tbl.Name, stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, ErrUnknownFormat
	}
}
