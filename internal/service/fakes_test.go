package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
	"github.com/KOTTAGENVH/courier-service-app/internal/events"
)

type fakeShipmentStore struct {
	mu        sync.Mutex
	seq       uint
	shipments map[uint]*domain.Shipment
	notes     []domain.Notification
	dupOnce   bool
	users     *fakeUserStore
}

func newFakeShipmentStore(users *fakeUserStore) *fakeShipmentStore {
	return &fakeShipmentStore{shipments: make(map[uint]*domain.Shipment), users: users}
}

func (f *fakeShipmentStore) Create(_ context.Context, s *domain.Shipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dupOnce {
		f.dupOnce = false
		return domain.ErrDuplicateShipping
	}

	f.seq++
	s.ID = f.seq
	for i := range s.Notifications {
		s.Notifications[i].ShipmentID = s.ID
		f.notes = append(f.notes, s.Notifications[i])
	}

	stored := *s
	f.shipments[s.ID] = &stored
	return nil
}

func (f *fakeShipmentStore) GetByShippingID(_ context.Context, shippingID string) (*domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.shipments {
		if s.ShippingID == shippingID {
			copied := *s
			if f.users != nil {
				copied.User = f.users.byID(s.UserID)
			}
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeShipmentStore) ListAll(_ context.Context) ([]domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Shipment
	for _, s := range f.shipments {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeShipmentStore) ListByUser(_ context.Context, userID uint) ([]domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Shipment
	for _, s := range f.shipments {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeShipmentStore) ApplyTransition(_ context.Context, shipmentID uint, from, to domain.Status, at time.Time, note *domain.Notification) (*domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.shipments[shipmentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.Status != from {
		return nil, domain.ErrTransitionConflict
	}

	s.Status = to
	f.stamp(s, to, at)
	f.notes = append(f.notes, *note)

	copied := *s
	return &copied, nil
}

func (f *fakeShipmentStore) ForceCancel(_ context.Context, shipmentID uint, at time.Time, note *domain.Notification) (*domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.shipments[shipmentID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	s.Status = domain.StatusCanceled
	if s.CanceledDate == nil {
		s.CanceledDate = &at
	}
	f.notes = append(f.notes, *note)

	copied := *s
	return &copied, nil
}

func (f *fakeShipmentStore) SetRequestCancel(_ context.Context, shipmentID uint, note *domain.Notification) (*domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.shipments[shipmentID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	s.RequestCancel = true
	f.notes = append(f.notes, *note)

	copied := *s
	return &copied, nil
}

func (f *fakeShipmentStore) SetDelayFlag(_ context.Context, shipmentID uint, value bool, note *domain.Notification) (*domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.shipments[shipmentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.DelayFlag == value {
		return nil, domain.ErrTransitionConflict
	}

	s.DelayFlag = value
	f.notes = append(f.notes, *note)

	copied := *s
	return &copied, nil
}

func (f *fakeShipmentStore) stamp(s *domain.Shipment, to domain.Status, at time.Time) {
	switch to {
	case domain.StatusCollected:
		if s.CollectedDate == nil {
			s.CollectedDate = &at
		}
	case domain.StatusShipped:
		if s.ShippedDate == nil {
			s.ShippedDate = &at
		}
	case domain.StatusCompleted:
		if s.CompletedDate == nil {
			s.CompletedDate = &at
		}
	case domain.StatusCanceled:
		if s.CanceledDate == nil {
			s.CanceledDate = &at
		}
	}
}

func (f *fakeShipmentStore) notesFor(shipmentID uint) []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Notification
	for _, n := range f.notes {
		if n.ShipmentID == shipmentID {
			out = append(out, n)
		}
	}
	return out
}

type fakeUserStore struct {
	mu    sync.Mutex
	seq   uint
	users map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (f *fakeUserStore) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.users[u.Email]; exists {
		return domain.ErrEmailTaken
	}
	f.seq++
	u.ID = f.seq

	stored := *u
	f.users[u.Email] = &stored
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, userID uint, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ID == userID {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeUserStore) byID(id uint) *domain.User {
	for _, u := range f.users {
		if u.ID == id {
			copied := *u
			return &copied
		}
	}
	return nil
}

type fakeNotificationStore struct {
	mu    sync.Mutex
	notes map[uint]*domain.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notes: make(map[uint]*domain.Notification)}
}

func (f *fakeNotificationStore) add(n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes[n.ID] = &n
}

func (f *fakeNotificationStore) ListAll(_ context.Context) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Notification
	for _, n := range f.notes {
		out = append(out, *n)
	}
	return out, nil
}

func (f *fakeNotificationStore) ListUnreadByUser(_ context.Context, userID uint) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Notification
	for _, n := range f.notes {
		if n.UserID == userID && !n.Viewed {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) GetByID(_ context.Context, id uint) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.notes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (f *fakeNotificationStore) MarkViewed(_ context.Context, id uint) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.notes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if n.Viewed {
		return nil, domain.ErrAlreadyViewed
	}
	n.Viewed = true

	copied := *n
	return &copied, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.ShipmentEvent
	err    error
}

func (f *fakePublisher) PublishShipmentEvent(e events.ShipmentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) published() []events.ShipmentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.ShipmentEvent(nil), f.events...)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}
