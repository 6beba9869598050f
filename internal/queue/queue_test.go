package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"wardwise/server/internal/models"
)

func TestNewListingQueue(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(10, logger)
	assert.NotNil(t, q)
	assert.Equal(t, 10, q.maxSize)
	assert.False(t, q.IsClosed())
}

func TestListingQueue_Push(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(2, logger)

	// Test successful push
	listings := []*models.Property{{ID: "L1"}}
	err := q.Push(listings)
	assert.NoError(t, err)
	assert.Equal(t, 1, q.Len())

	// Test queue full
	for i := 0; i < 2; i++ {
		_ = q.Push([]*models.Property{{ID: "filler"}})
	}
	err = q.Push(listings)
	assert.Equal(t, ErrQueueFull, err)

	// Test closed queue
	q.Close()
	err = q.Push(listings)
	assert.Equal(t, ErrQueueClosed, err)
}

func TestListingQueue_Subscribe(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(10, logger)

	var processed []*models.Property
	var mu sync.Mutex

	// Add handler
	q.Subscribe(func(listings []*models.Property) error {
		mu.Lock()
		processed = append(processed, listings...)
		mu.Unlock()
		return nil
	})

	// Start queue
	q.Start()

	// Push items
	batch := []*models.Property{{ID: "L1"}, {ID: "L2"}}
	err := q.Push(batch)
	assert.NoError(t, err)

	// Wait for processing
	time.Sleep(100 * time.Millisecond)

	// Verify processing
	mu.Lock()
	assert.Equal(t, 2, len(processed))
	assert.Equal(t, "L1", processed[0].ID)
	assert.Equal(t, "L2", processed[1].ID)
	mu.Unlock()
}

func TestListingQueue_Close(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(10, logger)

	// Test first close
	err := q.Close()
	assert.NoError(t, err)
	assert.True(t, q.IsClosed())

	// Test second close (should be no-op)
	err = q.Close()
	assert.NoError(t, err)
}

func TestListingQueue_AllHandlersSeeBatch(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(10, logger)

	var wg sync.WaitGroup
	handled := 0
	var mu sync.Mutex

	// Add multiple handlers
	for i := 0; i < 3; i++ {
		wg.Add(1)
		q.Subscribe(func(listings []*models.Property) error {
			mu.Lock()
			handled++
			mu.Unlock()
			wg.Done()
			return nil
		})
	}

	// Start queue
	q.Start()

	// Push a batch
	err := q.Push([]*models.Property{{ID: "L1"}})
	assert.NoError(t, err)

	// Wait for all handlers
	wg.Wait()

	// Verify all handlers processed the batch
	mu.Lock()
	assert.Equal(t, 3, handled)
	mu.Unlock()
}
