package service

import (
	"context"
	"testing"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttestation_UnavailableWhileInProgress(t *testing.T) {
	svc, _, _ := newTestService(t)
	resp, err := svc.SubmitCoupons(context.Background(), validRequest(), "")
	require.NoError(t, err)

	_, _, err = svc.Attestation(context.Background(), resp.ReferenceNumber)
	assert.ErrorIs(t, err, ErrAttestationNotReady)

	_, err = svc.UpdateStatus(context.Background(), resp.ReferenceNumber, UpdateStatusRequest{Status: model.StatusProcessing}, "ops@example.com")
	require.NoError(t, err)
	_, _, err = svc.Attestation(context.Background(), resp.ReferenceNumber)
	assert.ErrorIs(t, err, ErrAttestationNotReady)
}

func TestAttestation_RendersOnceDecided(t *testing.T) {
	svc, _, _ := newTestService(t)
	resp, err := svc.SubmitCoupons(context.Background(), validRequest(), "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), resp.ReferenceNumber, UpdateStatusRequest{Status: model.StatusVerified}, "ops@example.com")
	require.NoError(t, err)

	data, filename, err := svc.Attestation(context.Background(), resp.ReferenceNumber)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
	assert.Regexp(t, `^attestation_REF-[a-z0-9]+-[A-Z0-9]{6}_\d{4}-\d{2}-\d{2}\.pdf$`, filename)
}

func TestAttestation_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, _, err := svc.Attestation(context.Background(), "REF-missing-ABCDEF")
	assert.True(t, IsNotFound(err))
}

func TestBuildAttestation_MasksCodes(t *testing.T) {
	sub := &model.Submission{
		ReferenceNumber: "REF-abc123-AB12CD",
		FullName:        "Mr Paul Martin",
		NumCoupons:      1,
		TotalAmount:     decimal.RequireFromString("50"),
		Coupons:         []model.Coupon{{Seq: 1, Code: "AB12CD34EF", Amount: "50"}},
	}

	doc := buildAttestation(sub, true)
	assert.True(t, doc.Verified)
	assert.Equal(t, "50.00", doc.TotalAmount)
	require.Len(t, doc.Coupons, 1)
	assert.Equal(t, "AB••••••EF", doc.Coupons[0].Code, "the document never carries the full code")

	sub.HideCodes = true
	hidden := buildAttestation(sub, false)
	assert.False(t, hidden.Verified)
	assert.Equal(t, HiddenCodePlaceholder, hidden.Coupons[0].Code)

	sub.TotalAmount = decimal.Zero
	assert.Equal(t, "", buildAttestation(sub, false).TotalAmount, "unknown totals render as absent, not 0.00")
}
