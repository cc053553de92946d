package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
	"github.com/KOTTAGENVH/courier-service-app/internal/events"
	"github.com/KOTTAGENVH/courier-service-app/internal/service"
)

type shipmentFixture struct {
	svc       *service.ShipmentService
	shipments *fakeShipmentStore
	users     *fakeUserStore
	publisher *fakePublisher
	owner     domain.CallerContext
	other     domain.CallerContext
	admin     domain.CallerContext
}

func newShipmentFixture(t *testing.T) *shipmentFixture {
	t.Helper()

	users := newFakeUserStore()
	require.NoError(t, users.Create(context.Background(), &domain.User{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	}))
	require.NoError(t, users.Create(context.Background(), &domain.User{
		FirstName: "John",
		LastName:  "Smith",
		Email:     "john@example.com",
	}))

	shipments := newFakeShipmentStore(users)
	publisher := &fakePublisher{}

	return &shipmentFixture{
		svc:       service.NewShipmentService(shipments, users, publisher, zap.NewNop()),
		shipments: shipments,
		users:     users,
		publisher: publisher,
		owner:     domain.CallerContext{Email: "jane@example.com"},
		other:     domain.CallerContext{Email: "john@example.com"},
		admin:     domain.CallerContext{Email: "admin@example.com", IsAdmin: true},
	}
}

func validInput() service.CreateShipmentInput {
	return service.CreateShipmentInput{
		OwnerEmail:        "jane@example.com",
		SenderAddress:     "1 Main Street, Colombo",
		ReceiverFirstName: "John",
		ReceiverLastName:  "Smith",
		ReceiverAddress:   "2 High Street, Kandy",
		ReceiverTelephone: "0771234567",
		Weight:            2.5,
	}
}

func (f *shipmentFixture) mustCreate(t *testing.T) *domain.Shipment {
	t.Helper()
	shipment, err := f.svc.Create(context.Background(), f.owner, validInput())
	require.NoError(t, err)
	return shipment
}

func TestCreateShipment(t *testing.T) {
	f := newShipmentFixture(t)

	shipment, err := f.svc.Create(context.Background(), f.owner, validInput())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, shipment.Status)
	assert.NotEmpty(t, shipment.ShippingID)
	assert.False(t, shipment.PlacedDate.IsZero())
	assert.InDelta(t, 2.5, shipment.Weight, 0.0001)
	assert.Nil(t, shipment.CollectedDate)
	assert.False(t, shipment.RequestCancel)
	assert.False(t, shipment.DelayFlag)

	notes := f.shipments.notesFor(shipment.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, "Shipment Created", notes[0].Title)

	published := f.publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.ShipmentCreatedEvent, published[0].Type)
	assert.Equal(t, shipment.ShippingID, published[0].ShippingID)
}

func TestCreateShipmentForAnotherUser(t *testing.T) {
	f := newShipmentFixture(t)

	in := validInput()
	in.OwnerEmail = "john@example.com"

	_, err := f.svc.Create(context.Background(), f.owner, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateShipmentValidation(t *testing.T) {
	f := newShipmentFixture(t)

	cases := []struct {
		name   string
		mutate func(*service.CreateShipmentInput)
	}{
		{"missing owner", func(in *service.CreateShipmentInput) { in.OwnerEmail = "" }},
		{"missing sender address", func(in *service.CreateShipmentInput) { in.SenderAddress = "" }},
		{"missing receiver name", func(in *service.CreateShipmentInput) { in.ReceiverFirstName = "" }},
		{"short telephone", func(in *service.CreateShipmentInput) { in.ReceiverTelephone = "12345" }},
		{"long telephone", func(in *service.CreateShipmentInput) { in.ReceiverTelephone = "1234567890123456" }},
		{"zero weight", func(in *service.CreateShipmentInput) { in.Weight = 0 }},
		{"negative weight", func(in *service.CreateShipmentInput) { in.Weight = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := f.svc.Create(context.Background(), f.owner, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreateShipmentRetriesOnShippingIDCollision(t *testing.T) {
	f := newShipmentFixture(t)
	f.shipments.dupOnce = true

	shipment, err := f.svc.Create(context.Background(), f.owner, validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, shipment.Status)
	assert.Len(t, f.publisher.published(), 1)
}

func TestTransition(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	updated, err := f.svc.Transition(context.Background(), f.admin, shipment.ShippingID, "ON_ROUTE_TO_COLLECT")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnRouteToCollect, updated.Status)
	assert.Nil(t, updated.CollectedDate)

	updated, err = f.svc.Transition(context.Background(), f.admin, shipment.ShippingID, "COLLECTED")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCollected, updated.Status)
	require.NotNil(t, updated.CollectedDate)

	notes := f.shipments.notesFor(shipment.ID)
	require.Len(t, notes, 3)
	assert.Equal(t, "Status Updated", notes[1].Title)
	assert.Equal(t, "Status Updated", notes[2].Title)
}

func TestTransitionRepeatedIsRejected(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	_, err := f.svc.Transition(context.Background(), f.admin, shipment.ShippingID, "ON_ROUTE_TO_COLLECT")
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), f.admin, shipment.ShippingID, "ON_ROUTE_TO_COLLECT")
	assert.ErrorIs(t, err, domain.ErrSameStatus)
}

func TestTransitionSkippingStagesIsRejected(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	_, err := f.svc.Transition(context.Background(), f.admin, shipment.ShippingID, "SHIPPED")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	got, err := f.svc.Get(context.Background(), f.admin, shipment.ShippingID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestTransitionRequiresAdmin(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	_, err := f.svc.Transition(context.Background(), f.owner, shipment.ShippingID, "ON_ROUTE_TO_COLLECT")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTransitionUnknownStatus(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	_, err := f.svc.Transition(context.Background(), f.admin, shipment.ShippingID, "TELEPORTED")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGetHidesForeignShipments(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	got, err := f.svc.Get(context.Background(), f.owner, shipment.ShippingID, false)
	require.NoError(t, err)
	assert.Equal(t, shipment.ShippingID, got.ShippingID)

	_, err = f.svc.Get(context.Background(), f.other, shipment.ShippingID, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err = f.svc.Get(context.Background(), f.admin, shipment.ShippingID, true)
	require.NoError(t, err)
	assert.Equal(t, shipment.ShippingID, got.ShippingID)
}

func TestGetAdminScopeRequiresAdmin(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	_, err := f.svc.Get(context.Background(), f.owner, shipment.ShippingID, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListScopes(t *testing.T) {
	f := newShipmentFixture(t)
	f.mustCreate(t)
	f.mustCreate(t)

	otherInput := validInput()
	otherInput.OwnerEmail = "john@example.com"
	_, err := f.svc.Create(context.Background(), f.other, otherInput)
	require.NoError(t, err)

	all, err := f.svc.List(context.Background(), f.admin, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := f.svc.List(context.Background(), f.owner, false)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = f.svc.List(context.Background(), f.owner, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCancelPendingShipment(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	updated, err := f.svc.Cancel(context.Background(), f.owner, shipment.ShippingID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, updated.Status)
	require.NotNil(t, updated.CanceledDate)

	notes := f.shipments.notesFor(shipment.ID)
	require.Len(t, notes, 2)
	assert.Equal(t, "Shipment Cancelled", notes[1].Title)

	published := f.publisher.published()
	require.Len(t, published, 2)
	assert.Equal(t, events.ShipmentCanceledEvent, published[1].Type)
}

func TestCancelInFlightShipmentOnlyFlags(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	_, err := f.svc.Transition(context.Background(), f.admin, shipment.ShippingID, "ON_ROUTE_TO_COLLECT")
	require.NoError(t, err)

	updated, err := f.svc.Cancel(context.Background(), f.owner, shipment.ShippingID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnRouteToCollect, updated.Status)
	assert.True(t, updated.RequestCancel)
	assert.Nil(t, updated.CanceledDate)

	notes := f.shipments.notesFor(shipment.ID)
	require.Len(t, notes, 3)
	assert.Equal(t, "Cancel Request Submitted", notes[2].Title)
}

func TestCancelTerminalShipmentIsRejected(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	_, err := f.svc.Cancel(context.Background(), f.owner, shipment.ShippingID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), f.owner, shipment.ShippingID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestCancelForeignShipment(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	_, err := f.svc.Cancel(context.Background(), f.other, shipment.ShippingID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestForceCancel(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	_, err := f.svc.Transition(context.Background(), f.admin, shipment.ShippingID, "ON_ROUTE_TO_COLLECT")
	require.NoError(t, err)
	_, err = f.svc.Transition(context.Background(), f.admin, shipment.ShippingID, "COLLECTED")
	require.NoError(t, err)

	updated, err := f.svc.ForceCancel(context.Background(), f.admin, shipment.ShippingID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, updated.Status)
	require.NotNil(t, updated.CanceledDate)

	notes := f.shipments.notesFor(shipment.ID)
	assert.Equal(t, "Shipment Cancelled by Admin", notes[len(notes)-1].Title)
}

func TestForceCancelRequiresAdmin(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	_, err := f.svc.ForceCancel(context.Background(), f.owner, shipment.ShippingID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestToggleDelayRoundTrip(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	updated, err := f.svc.ToggleDelay(context.Background(), f.owner, shipment.ShippingID)
	require.NoError(t, err)
	assert.True(t, updated.DelayFlag)

	updated, err = f.svc.ToggleDelay(context.Background(), f.owner, shipment.ShippingID)
	require.NoError(t, err)
	assert.False(t, updated.DelayFlag)

	notes := f.shipments.notesFor(shipment.ID)
	require.Len(t, notes, 3)
	assert.Equal(t, "Delay Flagged", notes[1].Title)
	assert.Equal(t, "Delay Flagged", notes[2].Title)
}

func TestToggleDelayForeignShipment(t *testing.T) {
	f := newShipmentFixture(t)
	shipment := f.mustCreate(t)

	_, err := f.svc.ToggleDelay(context.Background(), f.other, shipment.ShippingID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
