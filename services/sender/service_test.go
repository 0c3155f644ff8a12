package sender

import (
	"context"
	"sync"
	"testing"
	"time"

	"cwkeyer-go/bus"
	"cwkeyer-go/hal/platform"
	"cwkeyer-go/keyer"
	"cwkeyer-go/types"
)

type keyEdge struct {
	down bool
	at   time.Time
}

type recordingKey struct {
	mu    sync.Mutex
	level bool
	edges []keyEdge
}

func (k *recordingKey) Set(down bool) {
	k.mu.Lock()
	k.level = down
	k.edges = append(k.edges, keyEdge{down, time.Now()})
	k.mu.Unlock()
}

func (k *recordingKey) Get() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.level
}

func (k *recordingKey) snapshot() []keyEdge {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]keyEdge(nil), k.edges...)
}

func TestTiming(t *testing.T) {
	u := 60 * time.Millisecond
	cases := []struct {
		e           keyer.Element
		down, space time.Duration
	}{
		{keyer.Dit, u, u},
		{keyer.Dah, 3 * u, u},
		{keyer.CharSpace, 0, u},
	}
	for _, c := range cases {
		down, space := Timing(c.e, u)
		if down != c.down || space != c.space {
			t.Errorf("%v: got (%v,%v) want (%v,%v)", c.e, down, space, c.down, c.space)
		}
	}
}

func TestSendKeysAndTone(t *testing.T) {
	key := &recordingKey{}
	tone := &platform.RecordingSidetone{}
	s := New(nil, key, tone, 20*time.Millisecond)

	start := time.Now()
	ev, err := s.Send(context.Background(), keyer.Dah)
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Fatalf("dah plus space took %v, want >= 80ms", elapsed)
	}
	edges := key.snapshot()
	if len(edges) != 2 || !edges[0].down || edges[1].down {
		t.Fatalf("key edges = %+v", edges)
	}
	if d := edges[1].at.Sub(edges[0].at); d < 60*time.Millisecond {
		t.Fatalf("key down for %v, want >= 60ms", d)
	}
	if tev := tone.Events(); len(tev) != 2 || !tev[0].On || tev[1].On {
		t.Fatalf("tone events = %+v", tev)
	}
	if ev.Element != "dah" || ev.DownMs != 60 || ev.SpaceMs != 20 || ev.Seq != 1 {
		t.Fatalf("event = %+v", ev)
	}

	if _, err := s.Send(context.Background(), keyer.CharSpace); err != nil {
		t.Fatal(err)
	}
	if len(key.snapshot()) != 2 {
		t.Fatal("char space touched the key")
	}
}

func TestSendCancelReleasesKey(t *testing.T) {
	key := &recordingKey{}
	s := New(nil, key, nil, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.Send(ctx, keyer.Dah); err == nil {
		t.Fatal("expected cancellation error")
	}
	if key.Get() {
		t.Fatal("key left down after cancel")
	}
}

func TestRunDrainsQueueInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.NewBus(16)
	conn := b.NewConnection("sender")
	sub := b.NewConnection("test").Subscribe(bus.T("keyer", "element"))

	cfg := keyer.DefaultConfig()
	q := keyer.NewQueue(cfg)
	key := &recordingKey{}
	s := New(q, key, nil, 10*time.Millisecond)
	s.Start(ctx, conn)

	q.TryPush(keyer.Dit)
	q.TryPush(keyer.Dah)
	q.TryPush(keyer.Dit)

	var got []string
	deadline := time.After(time.Second)
	for len(got) < 3 {
		select {
		case m := <-sub.Channel():
			got = append(got, m.Payload.(types.ElementEvent).Element)
		case <-deadline:
			t.Fatalf("timeout, got %v", got)
		}
	}
	if got[0] != "dit" || got[1] != "dah" || got[2] != "dit" {
		t.Fatalf("elements = %v", got)
	}
	if n := len(key.snapshot()); n != 6 {
		t.Fatalf("key edges = %d, want 6", n)
	}
}

func TestRunFollowsConfiguredUnit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.NewBus(16)
	set := types.DefaultKeyerSettings()
	set.WPM = 40 // 30ms unit
	cfgConn := b.NewConnection("config")
	cfgConn.Publish(cfgConn.NewMessage(bus.T("config", "keyer"), set, true))

	q := keyer.NewQueue(keyer.DefaultConfig())
	s := New(q, &recordingKey{}, nil, 60*time.Millisecond)
	sub := b.NewConnection("test").Subscribe(bus.T("keyer", "element"))
	s.Start(ctx, b.NewConnection("sender"))

	// The retained config is picked up before the first element goes out.
	time.Sleep(20 * time.Millisecond)
	q.TryPush(keyer.Dit)
	select {
	case m := <-sub.Channel():
		if ev := m.Payload.(types.ElementEvent); ev.DownMs != 30 {
			t.Fatalf("down ms = %d, want 30", ev.DownMs)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestResetDropsQueuedElements(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.NewBus(16)
	sub := b.NewConnection("test").Subscribe(bus.T("keyer", "element"))
	q := keyer.NewQueue(keyer.DefaultConfig())
	key := &recordingKey{}
	s := New(q, key, nil, 40*time.Millisecond)
	s.Start(ctx, b.NewConnection("sender"))

	q.TryPush(keyer.Dit)
	q.TryPush(keyer.Dah)
	q.TryPush(keyer.Dah)

	// Reset once the first element is on air.
	deadline := time.Now().Add(time.Second)
	for !key.Get() {
		if time.Now().After(deadline) {
			t.Fatal("key never went down")
		}
		time.Sleep(time.Millisecond)
	}
	ctl := b.NewConnection("console")
	ctl.Publish(ctl.NewMessage(bus.T("keyer", "control", "reset"), nil, false))

	select {
	case m := <-sub.Channel():
		if e := m.Payload.(types.ElementEvent).Element; e != "dit" {
			t.Fatalf("first element = %s", e)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
	select {
	case m := <-sub.Channel():
		t.Fatalf("element after reset: %+v", m.Payload)
	case <-time.After(300 * time.Millisecond):
	}
	if q.Len() != 0 {
		t.Fatalf("queue len = %d after reset", q.Len())
	}
}
