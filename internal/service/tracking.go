package service

import (
	"strings"
	"time"

	"backend/internal/model"
)

// Display states derived from the stored status. Anything unrecognized maps
// to in_progress — a submission whose status an operator fat-fingered must
// still render as pending work, never as an error.
const (
	DisplayInProgress = "in_progress"
	DisplayVerified   = "verified"
	DisplayRejected   = "rejected"
)

// DisplayStatus normalizes a stored status (trim, casefold) and maps it to
// the three-way display state.
func DisplayStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case model.StatusCompleted, model.StatusVerified:
		return DisplayVerified
	case model.StatusRejected:
		return DisplayRejected
	default:
		// pending, processing and anything unrecognized
		return DisplayInProgress
	}
}

const maskRune = '•'

// HiddenCodePlaceholder replaces codes entirely when the submitter asked
// for them to be hidden.
const HiddenCodePlaceholder = "••••••••••••"

// MaskCouponCode keeps the first 2 and last 2 characters and replaces the
// middle one-for-one. Codes shorter than 4 characters are returned as-is.
func MaskCouponCode(code string) string {
	if len(code) < 4 {
		return code
	}
	var b strings.Builder
	b.WriteString(code[:2])
	for i := 0; i < len(code)-4; i++ {
		b.WriteRune(maskRune)
	}
	b.WriteString(code[len(code)-2:])
	return b.String()
}

// TrackingCoupon is one coupon as shown on the tracking view.
type TrackingCoupon struct {
	ID     int    `json:"id"`
	Code   string `json:"code"`
	Amount string `json:"amount"`
	Status string `json:"status"`
}

// TrackingResponse is the public projection of a submission: everything the
// tracking view renders, nothing the back office keeps to itself.
type TrackingResponse struct {
	ReferenceNumber       string           `json:"referenceNumber"`
	Type                  string           `json:"type"`
	Status                string           `json:"status"`
	DisplayStatus         string           `json:"displayStatus"`
	FullName              string           `json:"fullName"`
	Email                 string           `json:"email"`
	Phone                 string           `json:"phone,omitempty"`
	Country               string           `json:"country"`
	NumCoupons            int              `json:"numCoupons"`
	HideCodes             bool             `json:"hideCodes"`
	TotalAmount           string           `json:"totalAmount"`
	Coupons               []TrackingCoupon `json:"coupons"`
	CreatedAt             string           `json:"createdAt"`
	ProcessingStartedAt   *string          `json:"processingStartedAt"`
	ProcessingCompletedAt *string          `json:"processingCompletedAt"`
	EmailSent             bool             `json:"emailSent"`
	EmailSentAt           *string          `json:"emailSentAt"`
	AttestationReady      bool             `json:"attestationReady"`
}

func toTrackingResponse(sub *model.Submission) TrackingResponse {
	display := DisplayStatus(sub.Status)

	coupons := make([]TrackingCoupon, 0, len(sub.Coupons))
	for _, c := range sub.Coupons {
		code := c.Code
		if sub.HideCodes {
			code = HiddenCodePlaceholder
		}
		coupons = append(coupons, TrackingCoupon{
			ID:     c.Seq,
			Code:   code,
			Amount: c.Amount,
			Status: c.Status,
		})
	}

	return TrackingResponse{
		ReferenceNumber:       sub.ReferenceNumber,
		Type:                  sub.Type,
		Status:                sub.Status,
		DisplayStatus:         display,
		FullName:              sub.FullName,
		Email:                 sub.Email,
		Phone:                 sub.Phone,
		Country:               sub.Country,
		NumCoupons:            sub.NumCoupons,
		HideCodes:             sub.HideCodes,
		TotalAmount:           sub.TotalAmount.StringFixed(2),
		Coupons:               coupons,
		CreatedAt:             sub.CreatedAt.Format(time.RFC3339),
		ProcessingStartedAt:   formatTimePtr(sub.ProcessingStartedAt),
		ProcessingCompletedAt: formatTimePtr(sub.ProcessingCompletedAt),
		EmailSent:             sub.EmailSent,
		EmailSentAt:           formatTimePtr(sub.EmailSentAt),
		AttestationReady:      display == DisplayVerified || display == DisplayRejected,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
