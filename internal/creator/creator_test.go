package creator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTiers(t *testing.T) {
	tiers := Tiers("")
	require.Len(t, tiers, 3)

	want := map[string]string{"basic": "$9.99", "featured": "$29.99", "premium": "$99.99"}
	for _, tier := range tiers {
		assert.Equal(t, want[tier.Name], tier.Display(), tier.Name)
	}

	t.Run("lookup is case insensitive", func(t *testing.T) {
		tier, err := LookupTier(" Featured ", "USD")
		require.NoError(t, err)
		assert.Equal(t, int64(2999), tier.Price.Amount())
	})

	t.Run("unknown tier", func(t *testing.T) {
		_, err := LookupTier("platinum", "USD")
		assert.True(t, errors.Is(err, shared.ErrUnknownTier))
	})
}

func TestSimulatedLinks(t *testing.T) {
	ctx := context.Background()

	t.Run("unique links", func(t *testing.T) {
		links := SimulatedLinks{}
		a, err := links.CreatePaymentLink(ctx, 999, "Song Promotion: A")
		require.NoError(t, err)
		b, err := links.CreatePaymentLink(ctx, 999, "Song Promotion: A")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(a, "https://pay.example/link/"))
		assert.NotEqual(t, a, b)
	})

	t.Run("success redirect", func(t *testing.T) {
		link, err := SimulatedLinks{BaseURL: "https://checkout.test/", SuccessURL: "http://localhost:3000/success"}.CreatePaymentLink(ctx, 100, "x")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(link, "https://checkout.test/"))
		assert.True(t, strings.HasSuffix(link, "?redirect=http://localhost:3000/success"))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := SimulatedLinks{}.CreatePaymentLink(ctx, 0, "x")
		assert.True(t, errors.Is(err, shared.ErrValidation))
		_, err = SimulatedLinks{}.CreatePaymentLink(ctx, 100, " ")
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestNewUpload(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	up, err := NewUpload(" Demo ", "Me", "lofi", "demo/take:1.mp3", 2048, now)
	require.NoError(t, err)
	assert.NotEmpty(t, up.ID)
	assert.Equal(t, "Demo", up.Title)
	assert.Equal(t, "demotake1.mp3", up.Filename)
	assert.Equal(t, now, up.UploadedAt)

	_, err = NewUpload("", "Me", "", "a.mp3", 1, now)
	assert.True(t, errors.Is(err, shared.ErrValidation))
	_, err = NewUpload("A", "Me", "", "", 1, now)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

type recordingLinks struct {
	amount int64
	desc   string
	err    error
}

func (r *recordingLinks) CreatePaymentLink(_ context.Context, amountCents int64, description string) (string, error) {
	r.amount, r.desc = amountCents, description
	return "https://pay.example/link/fixed", r.err
}

func TestPromote(t *testing.T) {
	ctx := context.Background()
	upload := models.UploadedTrack{ID: "u1", Title: "Demo"}

	t.Run("prices the tier", func(t *testing.T) {
		links := &recordingLinks{}
		promo, err := Promote(ctx, links, upload, "premium", "USD")
		require.NoError(t, err)
		assert.Equal(t, int64(9999), links.amount)
		assert.Contains(t, links.desc, "Demo")
		assert.Equal(t, Promotion{UploadID: "u1", Tier: "premium", Price: "$99.99", Link: "https://pay.example/link/fixed"}, promo)
	})

	t.Run("link failure", func(t *testing.T) {
		_, err := Promote(ctx, &recordingLinks{err: errors.New("down")}, upload, "basic", "USD")
		assert.Error(t, err)
	})

	t.Run("unknown tier does not create a link", func(t *testing.T) {
		links := &recordingLinks{}
		_, err := Promote(ctx, links, upload, "gold", "USD")
		assert.True(t, errors.Is(err, shared.ErrUnknownTier))
		assert.Zero(t, links.amount)
	})
}

func TestEarnings(t *testing.T) {
	uploads := []models.UploadedTrack{{Plays: 1000}, {Plays: 250}}
	assert.Equal(t, "$5.00", Earnings(uploads, 0.004, "USD").Display())
	assert.Equal(t, "$0.00", Earnings(nil, 0.004, "").Display())
}
