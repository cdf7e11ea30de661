package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(key string) *Client {
	return &Client{Key: key, Send: make(chan []byte, 4)}
}

func TestBroadcastReachesBothParties(t *testing.T) {
	hub := NewRideHub()
	driver := newTestClient(ClientKey("DRIVER", 7))
	user := newTestClient(ClientKey("USER", 3))
	hub.Register(driver)
	hub.Register(user)

	hub.BroadcastRideStatus(3, 7, 11, "Ongoing")

	for _, c := range []*Client{driver, user} {
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(<-c.Send, &msg))
		require.Equal(t, "ride_status", msg["type"])
		require.Equal(t, float64(11), msg["ride_id"])
		require.Equal(t, "Ongoing", msg["status"])
	}
}

func TestBroadcastSkipsOtherAccounts(t *testing.T) {
	hub := NewRideHub()
	bystander := newTestClient(ClientKey("DRIVER", 99))
	hub.Register(bystander)

	hub.BroadcastRideStatus(3, 7, 11, "Completed")
	require.Empty(t, bystander.Send)
}

func TestSlowClientDoesNotBlockBroadcast(t *testing.T) {
	hub := NewRideHub()
	slow := &Client{Key: ClientKey("USER", 3), Send: make(chan []byte)} // unbuffered, no reader
	hub.Register(slow)

	done := make(chan struct{})
	go func() {
		hub.BroadcastRideStatus(3, 7, 11, "Ongoing")
		close(done)
	}()
	<-done
}

func TestCloseUnregisters(t *testing.T) {
	hub := NewRideHub()
	c := newTestClient(ClientKey("DRIVER", 7))
	hub.Register(c)
	require.Equal(t, 1, hub.ClientCount())

	c.Close()
	require.Zero(t, hub.ClientCount())

	// Second close is a no-op.
	c.Close()
}

func TestBroadcastRacingCloseDoesNotPanic(t *testing.T) {
	hub := NewRideHub()
	for i := 0; i < 200; i++ {
		c := newTestClient(ClientKey("USER", 3))
		hub.Register(c)
		done := make(chan struct{})
		go func() {
			hub.BroadcastRideStatus(3, 7, 11, "Ongoing")
			close(done)
		}()
		c.Close()
		<-done
	}
	require.Zero(t, hub.ClientCount())
}

func TestMultipleConnectionsPerAccount(t *testing.T) {
	hub := NewRideHub()
	a := newTestClient(ClientKey("DRIVER", 7))
	b := newTestClient(ClientKey("DRIVER", 7))
	hub.Register(a)
	hub.Register(b)

	hub.BroadcastRideStatus(3, 7, 11, "Ongoing")
	require.Len(t, a.Send, 1)
	require.Len(t, b.Send, 1)
}
