// Package creator implements the simulated creator mode: an inventory of uploaded
// tracks, paid promotion tiers backed by payment links, and earnings estimated
// from play counts. No money moves; links come from a [LinkCreator].
package creator

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/google/uuid"
)

// Tier is a promotion package.
type Tier struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       *money.Money `json:"-"`
}

// Display renders the tier price, e.g. "$9.99".
func (t Tier) Display() string {
	return t.Price.Display()
}

var tierPrices = []struct {
	name  string
	cents int64
	desc  string
}{
	{"basic", 999, "Listed in the new releases feed for a week"},
	{"featured", 2999, "Featured on the front page for two weeks"},
	{"premium", 9999, "Front page, playlist placement and a month of promotion"},
}

// Tiers lists the promotion tiers priced in currency (an ISO 4217 code).
func Tiers(currency string) []Tier {
	if currency == "" {
		currency = money.USD
	}
	tiers := make([]Tier, len(tierPrices))
	for i, p := range tierPrices {
		tiers[i] = Tier{Name: p.name, Description: p.desc, Price: money.New(p.cents, currency)}
	}
	return tiers
}

// LookupTier finds a tier by case-insensitive name.
func LookupTier(name, currency string) (Tier, error) {
	for _, t := range Tiers(currency) {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return Tier{}, fmt.Errorf("%w: %q", shared.ErrUnknownTier, name)
}

// LinkCreator creates a checkout URL for an amount in minor units.
type LinkCreator interface {
	CreatePaymentLink(ctx context.Context, amountCents int64, description string) (string, error)
}

// SimulatedLinks hands out unique, non-functional payment links.
type SimulatedLinks struct {
	BaseURL    string
	SuccessURL string
}

// CreatePaymentLink implements [LinkCreator].
func (s SimulatedLinks) CreatePaymentLink(ctx context.Context, amountCents int64, description string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if amountCents <= 0 {
		return "", fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("%w: description is required", shared.ErrValidation)
	}

	base := s.BaseURL
	if base == "" {
		base = "https://pay.example/link"
	}
	link := strings.TrimRight(base, "/") + "/" + uuid.NewString()
	if s.SuccessURL != "" {
		link += "?redirect=" + s.SuccessURL
	}
	return link, nil
}

// NewUpload validates upload metadata and assigns an id.
func NewUpload(title, artist, genre, filename string, size int64, now time.Time) (models.UploadedTrack, error) {
	title, artist = strings.TrimSpace(title), strings.TrimSpace(artist)
	if title == "" || artist == "" {
		return models.UploadedTrack{}, fmt.Errorf("%w: title and artist are required", shared.ErrValidation)
	}
	if strings.TrimSpace(filename) == "" {
		return models.UploadedTrack{}, fmt.Errorf("%w: filename is required", shared.ErrValidation)
	}
	if size < 0 {
		return models.UploadedTrack{}, fmt.Errorf("%w: negative size", shared.ErrValidation)
	}

	return models.UploadedTrack{
		ID:         shared.GenerateID(),
		Title:      title,
		Artist:     artist,
		Genre:      strings.TrimSpace(genre),
		Filename:   shared.SanitizeFilename(filename),
		Size:       size,
		UploadedAt: now,
	}, nil
}

// Promotion is the outcome of requesting a promotion for an upload.
type Promotion struct {
	UploadID string `json:"upload_id"`
	Tier     string `json:"tier"`
	Price    string `json:"price"`
	Link     string `json:"link"`
}

// Promote prices upload at the named tier and asks links for a checkout URL.
func Promote(ctx context.Context, links LinkCreator, upload models.UploadedTrack, tierName, currency string) (Promotion, error) {
	tier, err := LookupTier(tierName, currency)
	if err != nil {
		return Promotion{}, err
	}

	desc := fmt.Sprintf("Song Promotion: %s (%s package)", upload.Title, tier.Name)
	link, err := links.CreatePaymentLink(ctx, tier.Price.Amount(), desc)
	if err != nil {
		return Promotion{}, err
	}
	return Promotion{UploadID: upload.ID, Tier: tier.Name, Price: tier.Display(), Link: link}, nil
}

// Earnings estimates payouts as plays times ratePerStream, rounded to the nearest cent.
func Earnings(uploads []models.UploadedTrack, ratePerStream float64, currency string) *money.Money {
	if currency == "" {
		currency = money.USD
	}
	plays := 0
	for _, u := range uploads {
		plays += u.Plays
	}
	cents := int64(math.Round(float64(plays) * ratePerStream * 100))
	return money.New(cents, currency)
}
