package heartbeat

import (
	"context"
	"sync/atomic"
	"time"

	"cwkeyer-go/bus"
	"cwkeyer-go/types"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	topicKeyerState      = bus.T("keyer", "state")
)

const defaultInterval = 10 * time.Second

// Service prints a periodic liveness line with the latest keyer status.
type Service struct {
	beats atomic.Uint32
}

func (s *Service) Beats() uint32 { return s.beats.Load() }

func line(st *types.KeyerStatus) {
	if st == nil {
		println("[heartbeat] alive")
		return
	}
	println("[heartbeat] mode:", st.Mode, "wpm:", st.WPM, "state:", st.State,
		"enqueued:", st.Enqueued, "queue:", st.QueueLen)
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, beat chan<- struct{}) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	stateSub := conn.Subscribe(topicKeyerState)
	defer conn.Unsubscribe(stateSub)

	tick := time.NewTicker(defaultInterval)
	defer tick.Stop()

	var last *types.KeyerStatus
	for {
		select {
		case <-ctx.Done():
			println("[heartbeat] stopping")
			return
		case <-tick.C:
			s.beats.Add(1)
			line(last)
			if beat != nil {
				select {
				case beat <- struct{}{}:
				default:
				}
			}
		case msg := <-stateSub.Channel():
			if st, ok := msg.Payload.(types.KeyerStatus); ok {
				last = &st
			}
		case msg := <-cfgSub.Channel():
			hc, ok := msg.Payload.(types.HeartbeatConfig)
			if !ok || hc.IntervalS == 0 {
				continue
			}
			tick.Reset(time.Duration(hc.IntervalS) * time.Second)
			println("[heartbeat] interval set to", hc.IntervalS, "seconds")
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn, nil)
	return nil
}
