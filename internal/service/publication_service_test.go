package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shinyyama/kidtokid/internal/fileset"
	"github.com/shinyyama/kidtokid/internal/logging"
	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/repository"
	"github.com/shinyyama/kidtokid/internal/transport"
	"github.com/shinyyama/kidtokid/internal/transport/transporttest"
)

type fakeUploader struct {
	mu    sync.Mutex
	delay map[string]time.Duration
	fail  map[string]error
	order []string
}

func (u *fakeUploader) Put(_ context.Context, target model.UploadTarget, f fileset.File) error {
	if d := u.delay[target.BlobName]; d > 0 {
		time.Sleep(d)
	}
	if _, err := fileset.ReadAll(f); err != nil {
		return err
	}
	u.mu.Lock()
	u.order = append(u.order, target.BlobName)
	u.mu.Unlock()
	return u.fail[target.BlobName]
}

type memJournal struct {
	mu    sync.Mutex
	saved []model.Publication
}

func (j *memJournal) Save(_ context.Context, p *model.Publication) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.saved = append(j.saved, *p)
	return nil
}

func (j *memJournal) ListIncomplete(_ context.Context, limit int) ([]model.Publication, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []model.Publication
	for _, p := range j.saved {
		if p.Incomplete() && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (j *memJournal) SetDB(*gorm.DB) {}

func targetsFor(n int) []model.UploadTarget {
	out := make([]model.UploadTarget, n)
	for i := range out {
		name := string(rune('a' + i))
		out[i] = model.UploadTarget{
			BlobName:  "blob-" + name,
			UploadURL: "https://store.example/blob-" + name + "?sig=1",
			PublicURL: "https://cdn.example/blob-" + name,
		}
	}
	return out
}

func newPublication(fake *transporttest.Scripted, up *fakeUploader, journal repository.PublicationRepository) PublicationService {
	return NewPublicationService(repository.NewListingRepository(fake), up, journal, 4, nil)
}

func TestPublishWithoutFiles(t *testing.T) {
	fake := transporttest.New().
		On(http.MethodPost, "/listings", transporttest.JSON(model.CreatedListing{ListingID: "L1"}))
	svc := newPublication(fake, &fakeUploader{}, nil)

	res, err := svc.Publish(context.Background(), ListingForm{Title: "Rain boots", Price: "24.00"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "L1", res.ListingID)
	assert.False(t, res.ImagesUploaded())
	require.Len(t, fake.Calls(), 1)

	var body map[string]any
	require.NoError(t, fake.Calls()[0].Decode(&body))
	assert.Equal(t, "clothing", body["category"])
	assert.Equal(t, "Like new", body["condition"])
	assert.EqualValues(t, 2400, body["price_cents"])
}

func TestPublishCommitsInSelectionOrder(t *testing.T) {
	targets := targetsFor(3)
	fake := transporttest.New().
		On(http.MethodPost, "/listings", transporttest.JSON(model.CreatedListing{ListingID: "L1"})).
		On(http.MethodPost, "/listings/L1/upload-urls", transporttest.JSON(targets)).
		On(http.MethodPost, "/listings/L1/images", transporttest.Empty())
	// the first file finishes last
	up := &fakeUploader{delay: map[string]time.Duration{"blob-a": 60 * time.Millisecond, "blob-b": 20 * time.Millisecond}}
	journal := &memJournal{}
	svc := newPublication(fake, up, journal)

	files := []fileset.File{
		fileset.FromBytes("front.PNG", "image/png", []byte("1")),
		fileset.FromBytes("back", "image/jpeg", []byte("2")),
		fileset.FromBytes("tag.webp", "image/webp", []byte("3")),
	}
	res, err := svc.Publish(context.Background(), ListingForm{Title: "Wooden cube", Category: "toys"}, files)
	require.NoError(t, err)
	assert.True(t, res.ImagesUploaded())
	assert.Equal(t, "blob-a", up.order[len(up.order)-1])

	call, ok := fake.Last(http.MethodPost, "/listings/L1/upload-urls")
	require.True(t, ok)
	assert.JSONEq(t, `{"files":[{"ext":"png"},{"ext":"jpg"},{"ext":"webp"}]}`, string(call.Body))

	var commit model.CommitImagesRequest
	call, ok = fake.Last(http.MethodPost, "/listings/L1/images")
	require.True(t, ok)
	require.NoError(t, call.Decode(&commit))
	require.Len(t, commit.Images, 3)
	for i, img := range commit.Images {
		assert.Equal(t, i, img.SortOrder)
		assert.Equal(t, targets[i], img.UploadTarget)
	}

	for _, f := range files {
		_, err := f.Open()
		assert.ErrorIs(t, err, fileset.ErrReleased)
	}
	require.NotEmpty(t, journal.saved)
	last := journal.saved[len(journal.saved)-1]
	assert.Equal(t, model.PublicationStageDone, last.Stage)
	assert.False(t, last.Failed)
}

func TestPublishUploadFailureSkipsCommit(t *testing.T) {
	fake := transporttest.New().
		On(http.MethodPost, "/listings", transporttest.JSON(model.CreatedListing{ListingID: "L1"})).
		On(http.MethodPost, "/listings/L1/upload-urls", transporttest.JSON(targetsFor(3))).
		On(http.MethodPost, "/listings/L1/images", transporttest.Empty())
	up := &fakeUploader{fail: map[string]error{"blob-b": errors.New("403 Forbidden")}}
	journal := &memJournal{}
	svc := newPublication(fake, up, journal)

	files := []fileset.File{
		fileset.FromBytes("a.jpg", "image/jpeg", []byte("1")),
		fileset.FromBytes("b.jpg", "image/jpeg", []byte("2")),
		fileset.FromBytes("c.jpg", "image/jpeg", []byte("3")),
	}
	_, err := svc.Publish(context.Background(), ListingForm{Title: "Stroller"}, files)

	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.PublicationStageUpload, pe.Stage)
	assert.Equal(t, "L1", pe.ListingID)
	assert.Equal(t, OutcomeCreatedIncompleteMedia, pe.Outcome())
	assert.Equal(t, 0, fake.Count(http.MethodPost, "/listings/L1/images"))
	// siblings still ran to completion
	assert.Len(t, up.order, 3)

	incomplete, err := svc.IncompletePublications(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, incomplete, 1)
	assert.Equal(t, "L1", incomplete[0].ListingID)
}

func TestPublishCreateFailure(t *testing.T) {
	fake := transporttest.New().On(http.MethodPost, "/listings", transporttest.Fail(http.StatusInternalServerError))
	_, err := newPublication(fake, &fakeUploader{}, nil).
		Publish(context.Background(), ListingForm{Title: "Bike"}, []fileset.File{fileset.FromBytes("a.jpg", "", nil)})

	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, OutcomeNotCreated, pe.Outcome())
	assert.False(t, pe.ListingCreated())
	assert.True(t, transport.IsStatus(err, http.StatusInternalServerError))
	assert.Len(t, fake.Calls(), 1)
}

func TestPublishTargetsFailure(t *testing.T) {
	fake := transporttest.New().
		On(http.MethodPost, "/listings", transporttest.JSON(model.CreatedListing{ListingID: "L1"})).
		On(http.MethodPost, "/listings/L1/upload-urls", transporttest.Fail(http.StatusBadGateway))
	up := &fakeUploader{}
	_, err := newPublication(fake, up, nil).
		Publish(context.Background(), ListingForm{Title: "Bike"}, []fileset.File{fileset.FromBytes("a.jpg", "", nil)})

	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.PublicationStageRequestTargets, pe.Stage)
	assert.Equal(t, OutcomeCreatedWithoutImages, pe.Outcome())
	assert.Empty(t, up.order)
}

func TestPublishTargetCountMismatch(t *testing.T) {
	fake := transporttest.New().
		On(http.MethodPost, "/listings", transporttest.JSON(model.CreatedListing{ListingID: "L1"})).
		On(http.MethodPost, "/listings/L1/upload-urls", transporttest.JSON(targetsFor(1)))
	_, err := newPublication(fake, &fakeUploader{}, nil).Publish(context.Background(), ListingForm{Title: "Bike"}, []fileset.File{
		fileset.FromBytes("a.jpg", "", nil), fileset.FromBytes("b.jpg", "", nil),
	})
	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.PublicationStageRequestTargets, pe.Stage)
}

func TestPublishValidationMakesNoCalls(t *testing.T) {
	cases := []ListingForm{
		{Title: "   "},
		{Title: "ok", Category: "weapons"},
		{Title: "ok", Condition: "Broken"},
	}
	for _, form := range cases {
		fake := transporttest.New()
		_, err := newPublication(fake, &fakeUploader{}, nil).Publish(context.Background(), form, nil)
		assert.True(t, IsValidation(err), "%+v", form)
		assert.Empty(t, fake.Calls())
	}
}

func TestPublishLongTitle(t *testing.T) {
	fake := transporttest.New().
		On(http.MethodPost, "/listings", transporttest.JSON(model.CreatedListing{ListingID: "L1"}))
	journal := &memJournal{}
	title := strings.Repeat("é", 200)

	res, err := newPublication(fake, &fakeUploader{}, journal).Publish(context.Background(), ListingForm{Title: title}, nil)
	require.NoError(t, err)
	assert.Equal(t, "L1", res.ListingID)

	var body map[string]any
	require.NoError(t, fake.Calls()[0].Decode(&body))
	assert.Equal(t, title, body["title"])

	require.NotEmpty(t, journal.saved)
	saved := journal.saved[len(journal.saved)-1].Title
	assert.Equal(t, model.PublicationTitleMax, utf8.RuneCountInString(saved))
	assert.True(t, utf8.ValidString(saved))
}

func TestPublishWithoutJournalDatabase(t *testing.T) {
	fake := transporttest.New().
		On(http.MethodPost, "/listings", transporttest.JSON(model.CreatedListing{ListingID: "L1"}))
	var logs bytes.Buffer
	svc := NewPublicationService(repository.NewListingRepository(fake), &fakeUploader{},
		repository.NewPublicationRepository(nil), 1, logging.New("debug", "text", &logs))

	_, err := svc.Publish(context.Background(), ListingForm{Title: "Bike"}, nil)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "listing published")
	assert.NotContains(t, logs.String(), "journal publication")
}

func TestParsePriceCents(t *testing.T) {
	cents := func(v int64) *int64 { return &v }
	tests := []struct {
		in   string
		want *int64
	}{
		{"24.00", cents(2400)},
		{"24,50", cents(2450)},
		{" 7 ", cents(700)},
		{"0", cents(0)},
		{"19.999", cents(2000)},
		{"12.50 EUR", cents(1250)},
		{".5", cents(50)},
		{"", nil},
		{"abc", nil},
		{"-3", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePriceCents(tt.in))
		})
	}
}
