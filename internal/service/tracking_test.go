package service

import (
	"testing"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayStatus(t *testing.T) {
	cases := map[string]string{
		"pending":    DisplayInProgress,
		"processing": DisplayInProgress,
		"completed":  DisplayVerified,
		"verified":   DisplayVerified,
		"rejected":   DisplayRejected,
		// normalization
		" PENDING ":   DisplayInProgress,
		"Rejected":    DisplayRejected,
		"  VERIFIED ": DisplayVerified,
		// unrecognized values render as pending work, never as an error
		"archived": DisplayInProgress,
		"":         DisplayInProgress,
	}
	for input, want := range cases {
		assert.Equal(t, want, DisplayStatus(input), "status %q", input)
	}
}

func TestMaskCouponCode(t *testing.T) {
	assert.Equal(t, "AB••••••EF", MaskCouponCode("AB12CD34EF"))
	assert.Equal(t, "12••••••••••••56", MaskCouponCode("1234567890123456"))
	assert.Equal(t, "AB34", MaskCouponCode("AB34"), "nothing left to mask at 4 characters")

	// Shorter than 4: returned unchanged.
	assert.Equal(t, "ABC", MaskCouponCode("ABC"))
	assert.Equal(t, "A", MaskCouponCode("A"))
	assert.Equal(t, "", MaskCouponCode(""))
}

func TestToTrackingResponse(t *testing.T) {
	started := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	sub := &model.Submission{
		ReferenceNumber:     "REF-abc123-AB12CD",
		Type:                "Neosurf",
		Status:              model.StatusProcessing,
		FullName:            "Mr Paul Martin",
		Email:               "paul.martin@example.com",
		Country:             "France",
		NumCoupons:          2,
		TotalAmount:         decimal.RequireFromString("62.5"),
		CreatedAt:           started.Add(-time.Hour),
		ProcessingStartedAt: &started,
		Coupons: []model.Coupon{
			{Seq: 1, Code: "AB12CD34EF", Amount: "50", Status: model.StatusProcessing},
			{Seq: 2, Code: "GH56IJ78KL", Amount: "12,5", Status: model.StatusProcessing},
		},
	}

	resp := toTrackingResponse(sub)
	assert.Equal(t, DisplayInProgress, resp.DisplayStatus)
	assert.False(t, resp.AttestationReady)
	assert.Equal(t, "62.50", resp.TotalAmount)
	require.Len(t, resp.Coupons, 2)
	assert.Equal(t, 1, resp.Coupons[0].ID)
	assert.Equal(t, "AB12CD34EF", resp.Coupons[0].Code, "codes shown in full unless hidden")
	require.NotNil(t, resp.ProcessingStartedAt)
	assert.Equal(t, "2026-03-14T10:30:00Z", *resp.ProcessingStartedAt)
	assert.Nil(t, resp.ProcessingCompletedAt)

	sub.HideCodes = true
	sub.Status = model.StatusVerified
	hidden := toTrackingResponse(sub)
	assert.Equal(t, HiddenCodePlaceholder, hidden.Coupons[0].Code)
	assert.True(t, hidden.AttestationReady)
}
