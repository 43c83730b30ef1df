package model

import "time"

// AttachmentType enumerates the fixed document categories of a book file
// (expediente). Singleton categories admit at most one attachment per book.
type AttachmentType string

const (
	AttachmentPublicationRequest AttachmentType = "publication-request"
	AttachmentEditorialOpinion   AttachmentType = "editorial-opinion"
	AttachmentPeerReview         AttachmentType = "peer-review"
	AttachmentRightsAssignment   AttachmentType = "rights-assignment"
	AttachmentISBNCertificate    AttachmentType = "isbn-certificate"
	AttachmentLegalDeposit       AttachmentType = "legal-deposit"
	AttachmentPrintQuote         AttachmentType = "print-quote"
	AttachmentContract           AttachmentType = "contract"
	AttachmentCorrespondence     AttachmentType = "correspondence"
	AttachmentOther              AttachmentType = "other"
)

// SingletonAttachmentTypes are categories that may appear at most once per book.
var SingletonAttachmentTypes = map[AttachmentType]bool{
	AttachmentPublicationRequest: true,
	AttachmentRightsAssignment:   true,
	AttachmentISBNCertificate:    true,
	AttachmentLegalDeposit:       true,
	AttachmentContract:           true,
}

// AttachmentOrigin says whether an attachment is a stored object or an
// external link. The two are mutually exclusive: StoragePath is populated
// for OriginFile, ExternalURL for OriginURL, never both.
type AttachmentOrigin string

const (
	OriginFile AttachmentOrigin = "file"
	OriginURL  AttachmentOrigin = "url"
)

// Attachment is a row in libro_adjuntos, the per-book document file.
type Attachment struct {
	ID          string           `json:"id"`
	BookID      string           `json:"book_id"`
	Type        AttachmentType   `json:"type"`
	Origin      AttachmentOrigin `json:"origin"`
	StoragePath string           `json:"storage_path,omitempty"`
	ExternalURL string           `json:"external_url,omitempty"`
	Note        string           `json:"note,omitempty"`
	Size        int64            `json:"size,omitempty"`
	ContentType string           `json:"content_type,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
