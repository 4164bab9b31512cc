package observer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/sim"
)

type staticSource struct{ snap model.Snapshot }

func (s staticSource) Snapshot() model.Snapshot { return s.snap }

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var f Frame
	if err := json.Unmarshal(b, &f); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestStreamDeliversTicks(t *testing.T) {
	s := NewServer(staticSource{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	s.AfterTick(t.Context(), sim.TickReport{Tick: 1}, model.Snapshot{Tick: 1})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if f := readFrame(t, conn); f.Tick != 1 || f.Report != nil {
		t.Errorf("join frame = tick %d report %v, want tick 1 without report", f.Tick, f.Report)
	}

	rep := sim.TickReport{Tick: 2, Killed: []int{4}}
	s.AfterTick(t.Context(), rep, model.Snapshot{Tick: 2, Units: []model.UnitView{{ID: 1, Kind: "frog"}}})
	f := readFrame(t, conn)
	if f.Tick != 2 || f.Report == nil || len(f.Report.Killed) != 1 || len(f.Snapshot.Units) != 1 {
		t.Errorf("tick frame = %+v", f)
	}
	if s.Clients() != 1 {
		t.Errorf("Clients() = %d, want 1", s.Clients())
	}
}

func TestStateHandler(t *testing.T) {
	s := NewServer(staticSource{snap: model.Snapshot{Tick: 42}})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var snap model.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.Tick != 42 {
		t.Errorf("state tick = %d, want 42", snap.Tick)
	}

	post, err := http.Post(ts.URL+"/state", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /state = %d, want 405", post.StatusCode)
	}
}

func TestIsLoopbackRemote(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:5000", true},
		{"[::1]:5000", true},
		{"10.0.0.3:5000", false},
		{"garbage", false},
	}
	for _, tc := range tests {
		if got := isLoopbackRemote(tc.addr); got != tc.want {
			t.Errorf("isLoopbackRemote(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}
