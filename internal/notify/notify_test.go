package notify

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFunc_ReceivesEvents(t *testing.T) {
	var got []Event
	var n Notifier = Func(func(ev Event) { got = append(got, ev) })

	n.Notify(context.Background(), Event{Type: RunStarted, Index: 2})
	require.NoError(t, n.Close())
	require.Len(t, got, 1)
	require.Equal(t, 2, got[0].Index)
}

func TestStamp(t *testing.T) {
	ev := Stamp(Event{Type: StageStarted})
	require.False(t, ev.Time.IsZero())

	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, fixed, Stamp(Event{Time: fixed}).Time)
}

func TestToPayload(t *testing.T) {
	payload, err := toPayload(Event{Type: RunFinished, Index: 3, Args: []string{"64", "2"}, Status: "failed"})
	require.NoError(t, err)
	require.Equal(t, "run_finished", payload["type"])
	require.Equal(t, float64(3), payload["index"])
	require.Equal(t, []any{"64", "2"}, payload["args"])
	require.NotContains(t, payload, "error")
}

func TestDialSocketIO_Unreachable(t *testing.T) {
	// Reserve a port and release it so nothing is listening there.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	_, err = DialSocketIO(context.Background(), SocketIOConfig{
		URL:     "http://" + addr + "/socket.io/",
		Timeout: 500 * time.Millisecond,
	})
	require.Error(t, err)
}

type closeErr struct{ Nop }

func (closeErr) Close() error { return errors.New("close failed") }

func TestMulti(t *testing.T) {
	var a, b []EventType
	m := Multi{
		Func(func(ev Event) { a = append(a, ev.Type) }),
		Nop{},
		Func(func(ev Event) { b = append(b, ev.Type) }),
	}
	m.Notify(context.Background(), Event{Type: StageStarted})
	m.Notify(context.Background(), Event{Type: StageFinished})

	require.Equal(t, []EventType{StageStarted, StageFinished}, a)
	require.Equal(t, a, b)
	require.NoError(t, m.Close())

	require.ErrorContains(t, Multi{Nop{}, closeErr{}}.Close(), "close failed")
}
