package catalog

import (
	"strings"
	"testing"

	"backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBySlug(t *testing.T) {
	svc, ok := FindBySlug("neosurf")
	require.True(t, ok)
	assert.Equal(t, "Neosurf", svc.Name)
	assert.False(t, svc.GiftCard)

	card, ok := FindBySlug("google-play")
	require.True(t, ok)
	assert.Equal(t, "Google Play", card.Name)
	assert.True(t, card.GiftCard)

	_, ok = FindBySlug("does-not-exist")
	assert.False(t, ok)
}

func TestAll_CoversCodeLengthTable(t *testing.T) {
	// Every attestable service must have a configured code length, otherwise
	// its form could never validate a code.
	for _, svc := range All() {
		_, ok := validation.CouponCodeLengths[strings.ToLower(svc.Slug)]
		assert.True(t, ok, "no code length configured for %s", svc.Slug)
	}
}
