package broadcast_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/event-attendance-api/internal/broadcast"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
)

func TestHub_DeliversNotices(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := broadcast.NewHub(nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	record := domain.AttendanceRecord{
		ID: 5, EventID: 2, StudentID: 9, Status: domain.CheckedIn,
		ScannedAt: time.Now().UTC(), ScannedByID: 3, ScannedByKind: domain.ActorVolunteer,
	}

	// Registration is asynchronous; publish until the client sees a notice.
	var got broadcast.Notice
	require.Eventually(t, func() bool {
		if hub.Publish(ctx, broadcast.AttendanceNotice(record)) != nil {
			return false
		}
		_ = conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return false
		}
		return json.Unmarshal(data, &got) == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, broadcast.NoticeAttendanceRecorded, got.Type)
	assert.Equal(t, uint(2), got.EventID)
	assert.Equal(t, uint(9), got.StudentID)
	assert.Equal(t, domain.CheckedIn, got.Status)
}

func TestHub_RejectsUnknownOrigin(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := broadcast.NewHub([]string{"https://admin.example.org"})
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r)
	}))
	defer srv.Close()

	header := http.Header{"Origin": []string{"https://evil.example.org"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

type recordingPublisher struct {
	notices []broadcast.Notice
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, n broadcast.Notice) error {
	p.notices = append(p.notices, n)
	return p.err
}

func TestMulti_PublishesToAll(t *testing.T) {
	ok := &recordingPublisher{}
	failing := &recordingPublisher{err: assert.AnError}

	err := broadcast.Multi{failing, ok}.Publish(context.Background(), broadcast.ActivationNotice(domain.Event{ID: 4}, time.Now()))

	assert.ErrorIs(t, err, assert.AnError)
	require.Len(t, ok.notices, 1)
	assert.Equal(t, broadcast.NoticeEventActivated, ok.notices[0].Type)
	assert.Equal(t, uint(4), ok.notices[0].EventID)
}
