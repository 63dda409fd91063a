package services

import (
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/events"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderPricesLinesFromMenu(t *testing.T) {
	db := setupTestDB(t)
	publisher := newRecordingPublisher()
	service := NewOrderService(db, NewItemService(db), publisher)
	venue := demoVenue(t, db)

	burger := itemByName(t, db, "Classic Burger")
	lemonade := itemByName(t, db, "Lemonade")
	double := burger.Variants[0].ID
	addons := []uint{burger.Addons[0].ID, burger.Addons[1].ID}

	order, err := service.PlaceOrder(venue, "T1", []LineRequest{
		{ItemID: burger.ID, Quantity: 2, VariantID: &double, AddonIDs: addons, Note: "no onions"},
		{ItemID: lemonade.ID, Quantity: 0},
	})
	require.NoError(t, err)

	require.Len(t, order.Lines, 2)
	assert.True(t, decimal.NewFromInt(68).Equal(order.Lines[0].UnitPrice))
	assert.True(t, decimal.NewFromInt(136).Equal(order.Lines[0].LineTotal))
	assert.Equal(t, 1, order.Lines[1].Quantity, "quantity below 1 is clamped")
	assert.True(t, decimal.NewFromInt(148).Equal(order.Total), "got %s", order.Total)
	assert.Equal(t, models.OrderPlaced, order.Status)

	select {
	case event := <-publisher.events:
		assert.Equal(t, events.OrderCreated, event.Type)
		assert.Equal(t, order.ID, event.ID)
		assert.Equal(t, "demo-bistro", event.VenueSlug)
	case <-time.After(time.Second):
		t.Fatal("order.created was not published")
	}
}

func TestPlaceOrderDropsUnknownOptions(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db, NewItemService(db), events.Nop{})
	venue := demoVenue(t, db)
	burger := itemByName(t, db, "Classic Burger")

	bogus := uint(9999)
	order, err := service.PlaceOrder(venue, "T1", []LineRequest{
		{ItemID: burger.ID, Quantity: 1, VariantID: &bogus, AddonIDs: []uint{9998}},
	})
	require.NoError(t, err)
	assert.Nil(t, order.Lines[0].VariantID)
	assert.Empty(t, order.Lines[0].AddonIDs)
	assert.True(t, decimal.NewFromInt(50).Equal(order.Total))
}

func TestPlaceOrderRejections(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db, NewItemService(db), events.Nop{})
	venue := demoVenue(t, db)
	wrap := itemByName(t, db, "Falafel Wrap")

	t.Run("empty", func(t *testing.T) {
		_, err := service.PlaceOrder(venue, "T1", nil)
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := service.PlaceOrder(venue, "T1", []LineRequest{{ItemID: 4242, Quantity: 1}})
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("other venue", func(t *testing.T) {
		other := models.Venue{ID: venue.ID + 100, Slug: "elsewhere"}
		_, err := service.PlaceOrder(other, "T1", []LineRequest{{ItemID: wrap.ID, Quantity: 1}})
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("unavailable", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Item{}).Where("id = ?", wrap.ID).Update("available", false).Error)
		_, err := service.PlaceOrder(venue, "T1", []LineRequest{{ItemID: wrap.ID, Quantity: 1}})
		assert.ErrorIs(t, err, ErrItemUnavailable)
	})
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db, NewItemService(db), events.Nop{})
	venue := demoVenue(t, db)
	lemonade := itemByName(t, db, "Lemonade")

	order, err := service.PlaceOrder(venue, "T1", []LineRequest{{ItemID: lemonade.ID, Quantity: 1}})
	require.NoError(t, err)

	updated, err := service.UpdateStatus(order.ID, models.OrderReady)
	require.NoError(t, err)
	assert.Equal(t, models.OrderReady, updated.Status)

	_, err = service.UpdateStatus(order.ID, models.OrderPreparing)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = service.UpdateStatus(order.ID, models.OrderReady)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = service.UpdateStatus(order.ID, "cooking")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = service.UpdateStatus(9999, models.OrderDelivered)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = service.UpdateStatus(order.ID, models.OrderDelivered)
	require.NoError(t, err)

	stored, err := service.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, stored.Status)
}

func TestListOrders(t *testing.T) {
	db := setupTestDB(t)
	service := NewOrderService(db, NewItemService(db), events.Nop{})
	venue := demoVenue(t, db)
	lemonade := itemByName(t, db, "Lemonade")

	var ids []uint
	for i := 0; i < 3; i++ {
		order, err := service.PlaceOrder(venue, "T1", []LineRequest{{ItemID: lemonade.ID, Quantity: 1}})
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}
	_, err := service.UpdateStatus(ids[0], models.OrderDelivered)
	require.NoError(t, err)

	all, err := service.ListOrders(venue.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID, "newest first")
	assert.Len(t, all[0].Lines, 1)

	active, err := service.ListOrders(venue.ID, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	recent, err := service.ListRecentOrders(2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestWaiterCallLifecycle(t *testing.T) {
	db := setupTestDB(t)
	publisher := newRecordingPublisher()
	service := NewWaiterCallService(db, publisher)
	venue := demoVenue(t, db)

	call, err := service.CreateCall(venue, "T1", "Bill please")
	require.NoError(t, err)
	assert.Equal(t, models.WaiterCallPending, call.Status)

	pending, err := service.ListPending(venue.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	completed, err := service.CompleteCall(call.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WaiterCallCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	again, err := service.CompleteCall(call.ID)
	require.NoError(t, err, "completing twice is a no-op")
	assert.Equal(t, models.WaiterCallCompleted, again.Status)

	pending, err = service.ListPending(venue.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = service.CompleteCall(9999)
	assert.ErrorIs(t, err, ErrWaiterCallNotFound)

	var kinds []events.Type
	for i := 0; i < 2; i++ {
		select {
		case event := <-publisher.events:
			kinds = append(kinds, event.Type)
		case <-time.After(time.Second):
			t.Fatal("missing waiter call event")
		}
	}
	assert.ElementsMatch(t, []events.Type{events.WaiterCallCreated, events.WaiterCallCompleted}, kinds)
}

func TestVenueSlugForEvents(t *testing.T) {
	db := setupTestDB(t)
	venue := demoVenue(t, db)

	slug, err := venueSlug(db, venue.ID)
	require.NoError(t, err)
	assert.Equal(t, "demo-bistro", slug)

	_, err = venueSlug(db, 9999)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}
