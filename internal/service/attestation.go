package service

import (
	"context"
	"errors"

	"backend/internal/model"
	"backend/internal/pdf"
)

// ErrAttestationNotReady is returned while the submission is still being
// processed — the attestation only exists once a verdict has been reached.
var ErrAttestationNotReady = errors.New("attestation is only available once the request has been decided")

// Attestation renders the downloadable PDF for a decided submission and
// returns the bytes together with the suggested download filename.
func (s *submissionService) Attestation(ctx context.Context, ref string) ([]byte, string, error) {
	submission, err := s.repo.FindByReference(ctx, ref)
	if err != nil {
		return nil, "", err
	}

	display := DisplayStatus(submission.Status)
	if display != DisplayVerified && display != DisplayRejected {
		return nil, "", ErrAttestationNotReady
	}

	doc := buildAttestation(submission, display == DisplayVerified)
	out, err := pdf.Render(doc)
	if err != nil {
		return nil, "", err
	}
	return out, doc.Filename(), nil
}

func buildAttestation(sub *model.Submission, verified bool) pdf.Document {
	coupons := make([]pdf.Coupon, 0, len(sub.Coupons))
	for _, c := range sub.Coupons {
		code := MaskCouponCode(c.Code)
		if sub.HideCodes {
			code = HiddenCodePlaceholder
		}
		coupons = append(coupons, pdf.Coupon{ID: c.Seq, Code: code, Amount: c.Amount})
	}

	total := ""
	if !sub.TotalAmount.IsZero() {
		total = sub.TotalAmount.StringFixed(2)
	}

	return pdf.Document{
		ReferenceNumber: sub.ReferenceNumber,
		FullName:        sub.FullName,
		Email:           sub.Email,
		Phone:           sub.Phone,
		Country:         sub.Country,
		Type:            sub.Type,
		NumCoupons:      sub.NumCoupons,
		TotalAmount:     total,
		SubmittedAt:     sub.CreatedAt,
		Verified:        verified,
		Coupons:         coupons,
	}
}
