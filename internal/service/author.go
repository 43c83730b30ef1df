package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalogapi/internal/model"
	"catalogapi/internal/realtime"
	"catalogapi/internal/repository"
)

var (
	ErrDuplicateAuthorEmail = errors.New("an author with that email already exists")
	ErrDuplicateAuthorName  = errors.New("an author with that name already exists")
	ErrDepartmentRequired   = errors.New("internal authors require a department")
	ErrDepartmentInactive   = errors.New("selected department is not active")
	ErrUnitOutsideDepartment = errors.New("academic unit does not belong to the selected department")
	ErrInstitutionRequired  = errors.New("external authors require an institution name")
	ErrInstitutionForbidden = errors.New("internal authors must not carry an external institution")
	ErrOrgFieldsForbidden   = errors.New("external authors must not carry department or unit")
	ErrExternalDomainEmail  = errors.New("external authors must not use an institutional email")
)

// AuthorInput is the author create/update payload.
type AuthorInput struct {
	FullName            string                `json:"full_name" validate:"required,min=3"`
	Email               string                `json:"email" validate:"required,email"`
	InstitutionType     model.InstitutionType `json:"institution_type" validate:"required,oneof=internal external"`
	ExternalInstitution string                `json:"external_institution"`
	DepartmentID        string                `json:"department_id"`
	AcademicUnitID      string                `json:"academic_unit_id"`
}

// AuthorListResult is the service-level DTO for paginated authors.
type AuthorListResult struct {
	Items []model.Author `json:"data"`
	Total int            `json:"total"`
}

// AuthorService implements the author registration workflow: institutional
// validation, duplicate pre-checks, and platform-user linking.
type AuthorService interface {
	Create(ctx context.Context, in AuthorInput) (*model.Author, error)
	Get(ctx context.Context, id string) (*model.Author, error)
	List(ctx context.Context, limit, offset int) (*AuthorListResult, error)
	Update(ctx context.Context, id string, in AuthorInput) (*model.Author, error)
	// Delete removes exactly one author; link rows of other authors are untouched.
	Delete(ctx context.Context, id string) error

	Departments(ctx context.Context) ([]model.Department, error)
	UnitsByDepartment(ctx context.Context, departmentID string) ([]model.AcademicUnit, error)
}

type authorService struct {
	authors repository.AuthorRepository
	users   repository.UserRepository
	org     repository.OrgRepository
	events  realtime.Publisher

	// institutionDomain is the email domain that forces InstitutionInternal.
	institutionDomain string
}

// NewAuthorService constructs an AuthorService.
func NewAuthorService(authors repository.AuthorRepository, users repository.UserRepository, org repository.OrgRepository, events realtime.Publisher, institutionDomain string) AuthorService {
	return &authorService{
		authors:           authors,
		users:             users,
		org:               org,
		events:            events,
		institutionDomain: strings.ToLower(strings.TrimPrefix(institutionDomain, "@")),
	}
}

// hasInstitutionalEmail reports whether email ends in the institutional domain.
func (s *authorService) hasInstitutionalEmail(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), "@"+s.institutionDomain)
}

// normalizeInput applies the cross-field force-correction: an institutional
// email always means an internal author, whatever the form said.
func (s *authorService) normalizeInput(in *AuthorInput) {
	in.FullName = strings.Join(strings.Fields(in.FullName), " ")
	in.Email = strings.TrimSpace(in.Email)
	if s.hasInstitutionalEmail(in.Email) {
		in.InstitutionType = model.InstitutionInternal
		in.ExternalInstitution = ""
	}
}

// validateInstitution runs the institution-type state machine over the input.
func (s *authorService) validateInstitution(ctx context.Context, in AuthorInput) error {
	switch in.InstitutionType {
	case model.InstitutionInternal:
		if in.ExternalInstitution != "" {
			return ErrInstitutionForbidden
		}
		if in.DepartmentID == "" {
			return ErrDepartmentRequired
		}
		dept, err := s.org.FindDepartment(ctx, in.DepartmentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrDepartmentRequired
			}
			return err
		}
		if !dept.Active {
			return ErrDepartmentInactive
		}
		if in.AcademicUnitID != "" {
			unit, err := s.org.FindAcademicUnit(ctx, in.AcademicUnitID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrUnitOutsideDepartment
				}
				return err
			}
			if unit.DepartmentID != in.DepartmentID {
				return ErrUnitOutsideDepartment
			}
		}
	case model.InstitutionExternal:
		if strings.TrimSpace(in.ExternalInstitution) == "" {
			return ErrInstitutionRequired
		}
		if in.DepartmentID != "" || in.AcademicUnitID != "" {
			return ErrOrgFieldsForbidden
		}
		if s.hasInstitutionalEmail(in.Email) {
			// Unreachable after normalizeInput, kept as the final cross-check.
			return ErrExternalDomainEmail
		}
	}
	return nil
}

// checkDuplicates rejects emails and normalized names already registered.
// excludeID skips the author being updated.
func (s *authorService) checkDuplicates(ctx context.Context, in AuthorInput, excludeID string) error {
	if existing, err := s.authors.FindByEmail(ctx, in.Email); err == nil {
		if existing.ID != excludeID {
			return ErrDuplicateAuthorEmail
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if existing, err := s.authors.FindByName(ctx, in.FullName); err == nil {
		if existing.ID != excludeID {
			return ErrDuplicateAuthorName
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func (s *authorService) Create(ctx context.Context, in AuthorInput) (*model.Author, error) {
	s.normalizeInput(&in)
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	if err := s.validateInstitution(ctx, in); err != nil {
		return nil, err
	}
	if err := s.checkDuplicates(ctx, in, ""); err != nil {
		return nil, err
	}

	a := &model.Author{
		ID:                  uuid.New().String(),
		FullName:            in.FullName,
		Email:               in.Email,
		InstitutionType:     in.InstitutionType,
		ExternalInstitution: in.ExternalInstitution,
		DepartmentID:        in.DepartmentID,
		AcademicUnitID:      in.AcademicUnitID,
		CreatedAt:           time.Now().UTC(),
	}

	// Link to an existing platform account by email, if any.
	linkedUserID := ""
	if u, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		a.UserID = u.ID
		linkedUserID = u.ID
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	stored, err := s.authors.Create(ctx, a)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateAuthorEmail
		}
		return nil, fmt.Errorf("create author: %w", err)
	}

	if linkedUserID != "" {
		if err := s.users.SetIsAuthor(ctx, linkedUserID, true); err != nil {
			return nil, fmt.Errorf("flag linked user: %w", err)
		}
	}

	s.events.Publish(realtime.Event{Table: "autores", Action: realtime.ActionInsert, ID: stored.ID})
	return stored, nil
}

func (s *authorService) Get(ctx context.Context, id string) (*model.Author, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.authors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *authorService) List(ctx context.Context, limit, offset int) (*AuthorListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.authors.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &AuthorListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *authorService) Update(ctx context.Context, id string, in AuthorInput) (*model.Author, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	current, err := s.authors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.normalizeInput(&in)
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	if err := s.validateInstitution(ctx, in); err != nil {
		return nil, err
	}
	if err := s.checkDuplicates(ctx, in, id); err != nil {
		return nil, err
	}

	current.FullName = in.FullName
	current.Email = in.Email
	current.InstitutionType = in.InstitutionType
	current.ExternalInstitution = in.ExternalInstitution
	current.DepartmentID = in.DepartmentID
	current.AcademicUnitID = in.AcademicUnitID

	stored, err := s.authors.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("update author: %w", err)
	}
	s.events.Publish(realtime.Event{Table: "autores", Action: realtime.ActionUpdate, ID: stored.ID})
	return stored, nil
}

func (s *authorService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	a, err := s.authors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := s.authors.Delete(ctx, id); err != nil {
		return err
	}
	// The author's platform account stays; it just loses the author flag.
	if a.UserID != "" {
		if err := s.users.SetIsAuthor(ctx, a.UserID, false); err != nil {
			return fmt.Errorf("unflag linked user: %w", err)
		}
	}
	s.events.Publish(realtime.Event{Table: "autores", Action: realtime.ActionDelete, ID: id})
	return nil
}

func (s *authorService) Departments(ctx context.Context) ([]model.Department, error) {
	return s.org.ListActiveDepartments(ctx)
}

func (s *authorService) UnitsByDepartment(ctx context.Context, departmentID string) ([]model.AcademicUnit, error) {
	if departmentID == "" {
		return nil, ErrIDRequired
	}
	return s.org.ListUnitsByDepartment(ctx, departmentID)
}
