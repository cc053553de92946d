package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
)

func allStatuses() []domain.Status {
	return []domain.Status{
		domain.StatusPending,
		domain.StatusOnRouteToCollect,
		domain.StatusCollected,
		domain.StatusShipped,
		domain.StatusCompleted,
		domain.StatusCanceled,
	}
}

func TestParseStatus(t *testing.T) {
	s, err := domain.ParseStatus("ON_ROUTE_TO_COLLECT")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusOnRouteToCollect, s)

	_, err = domain.ParseStatus("IN_TRANSIT")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = domain.ParseStatus("pending")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestTransitionTable(t *testing.T) {
	allowed := map[domain.Status][]domain.Status{
		domain.StatusPending:          {domain.StatusOnRouteToCollect, domain.StatusCanceled},
		domain.StatusOnRouteToCollect: {domain.StatusCollected, domain.StatusCanceled},
		domain.StatusCollected:        {domain.StatusShipped, domain.StatusCanceled},
		domain.StatusShipped:          {domain.StatusCompleted, domain.StatusCanceled},
		domain.StatusCompleted:        {},
		domain.StatusCanceled:         {},
	}

	for _, from := range allStatuses() {
		for _, to := range allStatuses() {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestNoOpNeverAllowed(t *testing.T) {
	for _, s := range allStatuses() {
		assert.False(t, s.CanTransitionTo(s), "self-transition %s", s)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, domain.StatusCompleted.Terminal())
	assert.True(t, domain.StatusCanceled.Terminal())

	for _, s := range []domain.Status{
		domain.StatusPending,
		domain.StatusOnRouteToCollect,
		domain.StatusCollected,
		domain.StatusShipped,
	} {
		assert.False(t, s.Terminal(), "%s should not be terminal", s)
	}
}

func TestStampColumns(t *testing.T) {
	assert.Equal(t, "", domain.StatusPending.StampColumn())
	assert.Equal(t, "", domain.StatusOnRouteToCollect.StampColumn())
	assert.Equal(t, "collected_date", domain.StatusCollected.StampColumn())
	assert.Equal(t, "shipped_date", domain.StatusShipped.StampColumn())
	assert.Equal(t, "completed_date", domain.StatusCompleted.StampColumn())
	assert.Equal(t, "canceled_date", domain.StatusCanceled.StampColumn())
}
