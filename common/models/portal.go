package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsPost is one entry in the union news feed
type NewsPost struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeamMember is one entry in the union team roster
type TeamMember struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Link is one entry in the link repository
type Link struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	URL       string    `db:"url" json:"url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Template is a downloadable document template; the file payload lives in
// the blob store under BlobRef
type Template struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	FileName  string    `db:"file_name" json:"file_name"`
	BlobRef   string    `db:"blob_ref" json:"blob_ref"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SupportStatus is the state of a support request thread
type SupportStatus string

const (
	SupportNew      SupportStatus = "new"
	SupportAnswered SupportStatus = "answered"
)

// SupportRequest is a member-to-admin support message
type SupportRequest struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	MemberID    string        `db:"member_id" json:"member_id"`
	MemberEmail string        `db:"member_email" json:"member_email"`
	Text        string        `db:"text" json:"text"`
	Status      SupportStatus `db:"status" json:"status"`
	Reply       *string       `db:"reply" json:"reply,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	AnsweredAt  *time.Time    `db:"answered_at" json:"answered_at,omitempty"`
}
