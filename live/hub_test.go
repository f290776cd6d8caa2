package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restokitchen/pos/models"
)

// newWSPair dials a real websocket through httptest and hands back both
// ends of the connection.
func newWSPair(t *testing.T) (server *websocket.Conn, client *websocket.Conn) {
	t.Helper()

	connCh := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		connCh <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return <-connCh, client
}

func TestSubscribeReceivesBroadcasts(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.BroadcastStaffNotification("kitchen backed up")

	select {
	case msg := <-ch:
		assert.Equal(t, EventStaffNotif, msg.Event)
		assert.Equal(t, "kitchen backed up", msg.Data)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestCancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()

	cancel()
	_, open := <-ch
	assert.False(t, open)

	// second cancel is a no-op
	cancel()

	// broadcasts after cancel must not panic on the closed channel
	hub.BroadcastStaffNotification("after cancel")
}

func TestBroadcastFansOutToAllSubscribers(t *testing.T) {
	hub := NewHub()
	ch1, cancel1 := hub.Subscribe()
	defer cancel1()
	ch2, cancel2 := hub.Subscribe()
	defer cancel2()

	hub.BroadcastMenuSnapshot([]models.Menu{{Name: "Lava Cake"}})

	for _, ch := range []<-chan Message{ch1, ch2} {
		select {
		case msg := <-ch:
			require.Equal(t, EventMenuSnapshot, msg.Event)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the broadcast")
		}
	}
}

func TestSlowSubscriberIsSkippedNotBlocked(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe() // never drained
	defer cancel()

	done := make(chan struct{})
	go func() {
		// more than the channel buffer
		for i := 0; i < 64; i++ {
			hub.BroadcastPaymentPending(uint(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow subscriber")
	}
}

func TestBroadcastReachesWebsocketClients(t *testing.T) {
	hub := NewHub()
	serverConn, client := newWSPair(t)

	hub.RegisterClient(serverConn, "staff")
	assert.Equal(t, 1, hub.ClientCount())

	hub.BroadcastStaffNotification("service starting")

	var msg Message
	require.NoError(t, client.ReadJSON(&msg))
	assert.Equal(t, EventStaffNotif, msg.Event)
	assert.Equal(t, "service starting", msg.Data)

	hub.UnregisterClient(serverConn)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestBroadcastPrunesDeadConnections(t *testing.T) {
	hub := NewHub()
	serverConn, _ := newWSPair(t)

	hub.RegisterClient(serverConn, "staff")
	require.Equal(t, 1, hub.ClientCount())

	// a dead terminal must not wedge the hub; the failed write drops it
	serverConn.Close()
	hub.BroadcastStaffNotification("still there?")

	assert.Equal(t, 0, hub.ClientCount())
}

func TestPaymentEvents(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.BroadcastPaymentPending(7)
	hub.BroadcastPaymentSuccess(models.Payment{OrderID: 7, Amount: 472.5})

	first := <-ch
	assert.Equal(t, EventPaymentPending, first.Event)

	second := <-ch
	require.Equal(t, EventPaymentSuccess, second.Event)
	payment, ok := second.Data.(models.Payment)
	require.True(t, ok)
	assert.Equal(t, uint(7), payment.OrderID)
}
