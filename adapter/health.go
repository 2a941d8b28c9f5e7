// Package adapter integrates the simulated SoC device with external
// systems such as HTTP health monitoring.
package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/heptiolabs/healthcheck"

	"github.com/srediag/hetero-soc/soc"
)

// pingBudget bounds the readiness round trip; it sits above the documented
// ~100ms polling window.
const pingBudget = 200 * time.Millisecond

// NewHealthHandler builds an HTTP health endpoint over a device. Liveness
// reports whether the register region is still mapped; readiness pings each
// remote core and expects a pong within the polling window.
//
// The readiness pings use the channels' mailboxes, so they must not run
// concurrently with other traffic on the same channels (the mailbox holds
// at most one outstanding command per channel).
func NewHealthHandler(d *soc.Device) healthcheck.Handler {
	h := healthcheck.NewHandler()
	h.AddLivenessCheck("register-region", func() error {
		_, err := d.Map(soc.RegisterRegionSize)
		return err
	})
	for _, ch := range []soc.Channel{soc.ChannelIO, soc.ChannelRT} {
		ch := ch
		h.AddReadinessCheck(ch.String()+"-ping", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), pingBudget)
			defer cancel()
			resp, err := d.Ping(ctx, ch)
			if err != nil {
				return err
			}
			if resp != soc.RespPong {
				return fmt.Errorf("unexpected ping response 0x%04x from %s", resp, ch)
			}
			return nil
		})
	}
	return h
}
