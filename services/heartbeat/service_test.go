package heartbeat

import (
	"context"
	"testing"
	"time"

	"cwkeyer-go/bus"
	"cwkeyer-go/types"
)

func TestHeartbeatFollowsConfig(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.NewBus(8)
	pub := b.NewConnection("pub")
	pub.Publish(pub.NewMessage(topicConfigHeartbeat, types.HeartbeatConfig{IntervalS: 1}, true))
	pub.Publish(pub.NewMessage(topicKeyerState, types.KeyerStatus{Mode: "b", WPM: 20, State: "idle"}, true))

	s := &Service{}
	beat := make(chan struct{}, 1)
	go s.serviceLoop(ctx, b.NewConnection("heartbeat"), beat)

	// The default interval is 10s; one beat inside 2s proves the reset.
	select {
	case <-beat:
	case <-time.After(2 * time.Second):
		t.Fatal("no heartbeat after interval config")
	}
	if s.Beats() == 0 {
		t.Fatal("beat not counted")
	}
}
