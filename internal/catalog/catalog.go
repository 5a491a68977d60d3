// Package catalog is the static table of coupon and gift-card services the
// platform attests. Slugs are the public URL identifiers; names are the
// value stored on submissions as the type field.
package catalog

import "strings"

// Service describes one attestable coupon or gift-card brand.
type Service struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	GiftCard    bool   `json:"giftCard"`
}

var mainServices = []Service{
	{Slug: "toneofirst", Name: "Toneofirst", Description: "prepaid coupons"},
	{Slug: "transcash", Name: "Transcash", Description: "reloadable cards"},
	{Slug: "pcs", Name: "PCS", Description: "prepaid coupons"},
	{Slug: "neosurf", Name: "Neosurf", Description: "prepaid coupons"},
	{Slug: "paysafecard", Name: "PaysafeCard", Description: "international coupons"},
	{Slug: "cashlib", Name: "Cashlib", Description: "prepaid vouchers"},
	{Slug: "flexepin", Name: "Flexepin", Description: "digital vouchers"},
	{Slug: "ecopayz", Name: "ecoPayz", Description: "electronic wallet"},
}

var giftCards = []Service{
	{Slug: "steam", Name: "Steam Wallet", GiftCard: true},
	{Slug: "google-play", Name: "Google Play", GiftCard: true},
	{Slug: "itunes", Name: "iTunes/Apple Store", GiftCard: true},
	{Slug: "amazon", Name: "Amazon", GiftCard: true},
	{Slug: "paypal", Name: "PayPal vouchers", GiftCard: true},
	{Slug: "netflix", Name: "Netflix", GiftCard: true},
	{Slug: "spotify", Name: "Spotify", GiftCard: true},
}

// All returns every service, main coupon brands first.
func All() []Service {
	out := make([]Service, 0, len(mainServices)+len(giftCards))
	out = append(out, mainServices...)
	out = append(out, giftCards...)
	return out
}

// FindByName resolves a stored type name (e.g. "Neosurf") to its service.
// Matching is case-insensitive and also accepts the slug, so callers can
// hand over whichever identifier they have.
func FindByName(name string) (Service, bool) {
	for _, s := range All() {
		if strings.EqualFold(s.Name, name) || strings.EqualFold(s.Slug, name) {
			return s, true
		}
	}
	return Service{}, false
}

// FindBySlug resolves a URL slug to its service, or false when unknown.
func FindBySlug(slug string) (Service, bool) {
	for _, s := range mainServices {
		if s.Slug == slug {
			return s, true
		}
	}
	for _, s := range giftCards {
		if s.Slug == slug {
			return s, true
		}
	}
	return Service{}, false
}
