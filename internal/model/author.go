package model

import "time"

// InstitutionType distinguishes institution-affiliated authors from external ones.
type InstitutionType string

const (
	InstitutionInternal InstitutionType = "internal"
	InstitutionExternal InstitutionType = "external"
)

// Author represents a row in the autores table.
//
// The institutional fields are conditional on InstitutionType: internal authors
// carry a DepartmentID (and optionally an AcademicUnitID belonging to that
// department) and no ExternalInstitution; external authors carry only
// ExternalInstitution. UserID links the author to a platform user account when
// one exists with the same email.
type Author struct {
	ID                  string          `json:"id"`
	FullName            string          `json:"full_name"`
	Email               string          `json:"email"`
	InstitutionType     InstitutionType `json:"institution_type"`
	ExternalInstitution string          `json:"external_institution,omitempty"`
	DepartmentID        string          `json:"department_id,omitempty"`
	AcademicUnitID      string          `json:"academic_unit_id,omitempty"`
	UserID              string          `json:"user_id,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// LinkRole is the role an author plays on a given book.
type LinkRole string

const (
	RolePrincipalAuthor LinkRole = "principal-author"
	RoleCoAuthor        LinkRole = "co-author"
	RoleCoEditor        LinkRole = "co-editor"
)

// BookAuthorLink is a row in the libro_autor relation.
// At most one principal-author link may exist per book, and a given author
// appears at most once per book regardless of role.
type BookAuthorLink struct {
	BookID   string   `json:"book_id"`
	AuthorID string   `json:"author_id"`
	Role     LinkRole `json:"role"`
}

// Department is a row in the dependencias lookup table.
type Department struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// AcademicUnit is a row in the unidades_academicas lookup table.
// Each unit belongs to exactly one department.
type AcademicUnit struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Active       bool   `json:"active"`
}
