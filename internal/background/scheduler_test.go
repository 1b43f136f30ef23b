package background

import (
	"bytes"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalScheduler_DisplayAndCancel(t *testing.T) {
	var logs bytes.Buffer
	s := NewLocalScheduler(log.New(&logs, "", 0))
	defer s.Listen(LogSink(log.New(&logs, "", 0)))()

	var got []Delivery
	defer s.Listen(func(d Delivery) { got = append(got, d) })()

	require.NoError(t, s.Display(Notification{ID: StatusNotificationID, Title: "Intervalo en curso", Body: "a"}))
	require.NoError(t, s.Display(Notification{ID: StatusNotificationID, Title: "Intervalo en curso", Body: "b"}))

	displayed := s.Displayed()
	require.Len(t, displayed, 1, "same id replaces in place")
	assert.Equal(t, "b", displayed[0].Body)

	require.NoError(t, s.Cancel(StatusNotificationID))
	assert.Empty(t, s.Displayed())
	require.Len(t, got, 3)
	assert.True(t, got[2].Removed)

	err := s.Cancel(StatusNotificationID)
	assert.True(t, errors.Is(err, ErrNotificationNotFound))

	assert.Contains(t, logs.String(), "Notification: [Intervalo en curso] b")
	assert.Contains(t, logs.String(), "Dismissed "+StatusNotificationID)
}

func TestLocalScheduler_ScheduleFires(t *testing.T) {
	s := NewLocalScheduler(log.New(&bytes.Buffer{}, "", 0))

	var mu sync.Mutex
	var fired []string
	defer s.Listen(func(d Delivery) {
		mu.Lock()
		fired = append(fired, d.Notification.Title)
		mu.Unlock()
	})()

	id, err := s.Schedule(Notification{Title: "Descanso"}, 5*time.Millisecond)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	cancelled, err := s.Schedule(Notification{Title: "never"}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, s.PendingCount())
	require.NoError(t, s.Cancel(cancelled))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fired) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"Descanso"}, fired)
	assert.Equal(t, 0, s.PendingCount())
	require.Len(t, s.Displayed(), 1)
	assert.Equal(t, id, s.Displayed()[0].ID)
}

func TestLocalScheduler_RejectsNegativeDelay(t *testing.T) {
	s := NewLocalScheduler(log.New(&bytes.Buffer{}, "", 0))
	_, err := s.Schedule(Notification{Title: "late"}, -time.Second)
	assert.Error(t, err)
}
