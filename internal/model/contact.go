package model

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage is a message from the public contact form. Stored in its
// own collection, separate from submissions.
type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Civility  string    `gorm:"type:varchar(20)" json:"civility"`
	LastName  string    `gorm:"type:varchar(80);not null" json:"lastName"`
	FirstName string    `gorm:"type:varchar(80);not null" json:"firstName"`
	Email     string    `gorm:"type:varchar(128);not null" json:"email"`
	Phone     string    `gorm:"type:varchar(32)" json:"phone"`
	Subject   string    `gorm:"type:varchar(200);not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"type:varchar(20);not null;default:'contact'" json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UserAgent string    `gorm:"type:text" json:"userAgent"`
}
