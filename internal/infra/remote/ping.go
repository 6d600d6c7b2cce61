package remote

import (
	"context"
	"strconv"
	"time"
)

const PingBinary = "ping"

// Pinger checks board liveness with a single ICMP echo.
type Pinger struct {
	Runner  Commander
	Timeout time.Duration
}

// Probe reports whether host answered. It never fails: an unreachable host is
// an ordinary answer.
func (p Pinger) Probe(ctx context.Context, host string) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	seconds := int(timeout.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout+2*time.Second)
	defer cancel()

	_, err := p.Runner.Run(probeCtx, PingBinary, "-c", "1", "-W", strconv.Itoa(seconds), host)
	return err == nil
}
