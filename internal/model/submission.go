package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmissionStatus enum constants. completed and verified are both terminal
// success states and must be treated as synonyms by readers.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusVerified   = "verified"
	StatusRejected   = "rejected"
)

// IsKnownStatus reports whether s belongs to the closed status set accepted
// at the write boundary. Readers stay permissive; writers do not.
func IsKnownStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// IsTerminalStatus reports whether s ends the processing lifecycle.
func IsTerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusVerified || s == StatusRejected
}

// Submission is one attestation request. The reference number is both the
// public tracking key and the storage key — there is no surrogate id.
type Submission struct {
	ReferenceNumber string `gorm:"type:varchar(40);primaryKey" json:"referenceNumber"`
	Type            string `gorm:"type:varchar(50);not null;index" json:"type"`
	Status          string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	Civility  string `gorm:"type:varchar(20);not null" json:"civility"`
	LastName  string `gorm:"type:varchar(80);not null" json:"lastName"`
	FirstName string `gorm:"type:varchar(80);not null" json:"firstName"`
	FullName  string `gorm:"type:varchar(200);not null" json:"fullName"` // computed once at creation
	Email     string `gorm:"type:varchar(128);not null" json:"email"`
	Phone     string `gorm:"type:varchar(32)" json:"phone"`
	Country   string `gorm:"type:varchar(80);not null" json:"country"`

	NumCoupons int  `gorm:"type:int;not null" json:"numCoupons"`
	HideCodes  bool `gorm:"not null;default:false" json:"hideCodes"` // display hint only, codes are stored in clear

	Coupons []Coupon `gorm:"foreignKey:SubmissionRef;references:ReferenceNumber" json:"coupons"`

	// Summed once at submission time from the parseable coupon amounts,
	// never recomputed on read.
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"totalAmount"`

	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
	ProcessingStartedAt   *time.Time `json:"processingStartedAt"`
	ProcessingCompletedAt *time.Time `json:"processingCompletedAt"`
	EmailSent             bool       `gorm:"not null;default:false" json:"emailSent"`
	EmailSentAt           *time.Time `json:"emailSentAt"`

	UserAgent     string `gorm:"type:text" json:"userAgent"`
	InternalNotes string `gorm:"type:text" json:"-"`
	AdminNotes    string `gorm:"type:text" json:"-"`
}

// Coupon is a single voucher entry within a submission. Seq is the 1-based
// position assigned at creation; entries are never renumbered because a
// submission is never edited after creation.
type Coupon struct {
	SubmissionRef string `gorm:"type:varchar(40);primaryKey" json:"-"`
	Seq           int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Code          string `gorm:"type:varchar(64);not null" json:"code"`
	Amount        string `gorm:"type:varchar(20)" json:"amount"` // raw user input, "" when absent
	Status        string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
}
