package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyyama/kidtokid/internal/model"
	"github.com/shinyyama/kidtokid/internal/repository"
	"github.com/shinyyama/kidtokid/internal/transport"
	"github.com/shinyyama/kidtokid/internal/transport/transporttest"
)

func TestBasketAddReloads(t *testing.T) {
	p1, p2 := int64(1200), int64(800)
	fake := transporttest.New().
		On(http.MethodPost, "/basket/L2", transporttest.Empty()).
		On(http.MethodGet, "/basket", transporttest.JSON([]model.BasketLine{
			{ListingID: "L1", PriceCents: &p1},
			{ListingID: "L2", PriceCents: &p2},
			{ListingID: "L3"},
		}))
	view, err := NewBasketService(repository.NewBasketRepository(fake)).Add(context.Background(), "L2")
	require.NoError(t, err)
	assert.Len(t, view.Lines, 3)
	assert.Equal(t, int64(2000), view.TotalCents)
	assert.Equal(t, 1, fake.Count(http.MethodGet, "/basket"))
}

func TestBasketConfirm(t *testing.T) {
	fake := transporttest.New().
		On(http.MethodPost, "/orders/confirm", transporttest.JSON(model.OrderConfirmation{OrderID: "O1", TotalCents: 2000})).
		On(http.MethodGet, "/basket", transporttest.JSON([]model.BasketLine{}))
	res, err := NewBasketService(repository.NewBasketRepository(fake)).Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "O1", res.Order.OrderID)
	assert.Empty(t, res.Basket.Lines)
}

func TestBasketConfirmEmptyBasket(t *testing.T) {
	fake := transporttest.New().On(http.MethodPost, "/orders/confirm", transporttest.Fail(http.StatusConflict))
	_, err := NewBasketService(repository.NewBasketRepository(fake)).Confirm(context.Background())
	assert.True(t, transport.IsStatus(err, http.StatusConflict))
}

func TestBasketRequiresListingID(t *testing.T) {
	fake := transporttest.New()
	svc := NewBasketService(repository.NewBasketRepository(fake))
	_, err := svc.Add(context.Background(), " ")
	assert.True(t, IsValidation(err))
	_, err = svc.Remove(context.Background(), "")
	assert.True(t, IsValidation(err))
	assert.Empty(t, fake.Calls())
}

func TestListingServiceList(t *testing.T) {
	fake := transporttest.New().
		On(http.MethodGet, "/listings?limit=12", transporttest.JSON(nil))
	svc := NewListingService(repository.NewListingRepository(fake))
	items, err := svc.List(context.Background(), 0, "")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err = svc.List(context.Background(), 5, "weapons")
	assert.True(t, IsValidation(err))
}

func TestSavedSearchCreate(t *testing.T) {
	fake := transporttest.New().
		On(http.MethodPost, "/saved-searches", transporttest.JSON(model.CreatedSavedSearch{SavedSearchID: "S1"}))
	svc := NewSavedSearchService(repository.NewSavedSearchRepository(fake))

	id, err := svc.Create(context.Background(), SavedSearchInput{Query: "stroller", MaxPrice: "50"})
	require.NoError(t, err)
	assert.Equal(t, "S1", id)
	call, _ := fake.Last(http.MethodPost, "/saved-searches")
	var body map[string]any
	require.NoError(t, call.Decode(&body))
	assert.EqualValues(t, 5000, body["max_price_cents"])

	_, err = svc.Create(context.Background(), SavedSearchInput{})
	assert.True(t, IsValidation(err))
}
