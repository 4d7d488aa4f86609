package authnet

import (
	"context"
	"io"
	"time"

	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/relays"
)

func isTerminal(status dto.TransferStatus) bool {
	return status == dto.COMPLETE || status == dto.ERROR || status == dto.STOPPED
}

// publishTransferUpdate records n and hands it to every listener of n.Source.
// Progress updates are dropped for slow listeners. A terminal update evicts
// the oldest queued progress update instead, so it always lands.
func (s *NetSvc) publishTransferUpdate(n dto.TransferNotification) {
	s.transferState.Set(n.Destination, n)

	// unsub closes channels under the same lock, sends never block
	s.muListeners.Lock()
	for _, ch := range s.listenersByURL[n.Source] {
		select {
		case ch <- n:
			continue
		default:
		}
		if !isTerminal(n.Status) {
			continue
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- n:
		default:
		}
	}
	s.muListeners.Unlock()

	s.relay.Info(relays.RlyNetDownload{
		Source:      n.Source,
		Destination: n.Destination,
		Status:      n.Status,
		Percentage:  n.Percentage,
		Msg:         n.Message,
	})
}

func percentOf(read, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return min(float64(read)/float64(total)*100, 100)
}

// progressReader reports the running byte count at most once per interval and
// stops reading as soon as ctx is done.
type progressReader struct {
	ctx      context.Context
	src      io.Reader
	total    int64
	read     int64
	interval time.Duration
	next     time.Time
	report   func(read, total int64)
}

func newProgressReader(ctx context.Context, src io.Reader, total int64, interval time.Duration, report func(read, total int64)) *progressReader {
	return &progressReader{
		ctx:      ctx,
		src:      src,
		total:    total,
		interval: interval,
		next:     time.Now().Add(interval),
		report:   report,
	}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	if err := pr.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := pr.src.Read(p)
	pr.read += int64(n)
	if n > 0 {
		if now := time.Now(); !now.Before(pr.next) {
			pr.next = now.Add(pr.interval)
			pr.report(pr.read, pr.total)
		}
	}
	return n, err
}
