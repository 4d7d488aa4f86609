package authnet

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joy-dx/authnet/config"
	"github.com/joy-dx/authnet/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

// ---------- fakes ----------

type fakeRelay struct {
	mu   sync.Mutex
	msgs []string
	evts []relayDTO.RelayEventInterface
}

func (r *fakeRelay) Debug(data relayDTO.RelayEventInterface) { r.add(data) }
func (r *fakeRelay) Info(data relayDTO.RelayEventInterface)  { r.add(data) }
func (r *fakeRelay) Warn(data relayDTO.RelayEventInterface)  { r.add(data) }
func (r *fakeRelay) Error(data relayDTO.RelayEventInterface) { r.add(data) }
func (r *fakeRelay) Fatal(data relayDTO.RelayEventInterface) { r.add(data) }
func (r *fakeRelay) Meta(data relayDTO.RelayEventInterface)  { r.add(data) }

func (r *fakeRelay) add(e relayDTO.RelayEventInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evts = append(r.evts, e)
	if e != nil {
		r.msgs = append(r.msgs, e.Message())
	}
}

func (r *fakeRelay) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.evts)
}

type fakeNetClient struct {
	ref  string
	typ  dto.NetClientType
	fn   func(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error)
	call int
	mu   sync.Mutex
}

func (c *fakeNetClient) Ref() string             { return c.ref }
func (c *fakeNetClient) Type() dto.NetClientType { return c.typ }
func (c *fakeNetClient) ProcessRequest(
	ctx context.Context,
	cfg *dto.RequestConfig,
) (dto.Response, error) {
	c.mu.Lock()
	c.call++
	c.mu.Unlock()
	return c.fn(ctx, cfg)
}

func (c *fakeNetClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.call
}

type tempErr struct{ msg string }

func (e tempErr) Error() string   { return e.msg }
func (e tempErr) Temporary() bool { return true }

// ---------- helpers ----------

func newTestSvc(t *testing.T) (*NetSvc, *fakeRelay) {
	t.Helper()

	cfg := config.DefaultNetSvcConfig()
	relay := &fakeRelay{}
	cfg.WithRelay(relay)
	return NewNetSvc(&cfg), relay
}

type noWaitDelay struct{}

func (d noWaitDelay) Wait(ctx context.Context, taskName string, attempt int) error {
	return ctx.Err()
}

func TestNetSvc_RegisterClient_Golden(t *testing.T) {
	t.Parallel()

	s, _ := newTestSvc(t)
	c := &fakeNetClient{ref: "x", fn: func(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
		return dto.Response{StatusCode: 200}, nil
	}}

	s.RegisterClient("x", c)

	got, err := s.client("x")
	if err != nil || got != c {
		t.Fatalf("client not registered: %v", err)
	}
	if _, err := s.client("missing"); err == nil {
		t.Fatalf("expected error for unknown client")
	}
}

func TestNetSvc_Hydrate_RegistersDefaultClient(t *testing.T) {
	t.Parallel()

	s, relay := newTestSvc(t)
	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}

	state := s.State()
	if len(state.Clients) != 1 || state.Clients[0] != dto.NET_DEFAULT_CLIENT_REF {
		t.Fatalf("clients = %v", state.Clients)
	}
	if state.LoginPath != config.DefaultLoginPath || !state.WithCredentials {
		t.Fatalf("state = %+v", state)
	}
	if relay.Count() == 0 {
		t.Fatalf("expected a warning about the missing auth service")
	}
}

func TestNetSvc_TransferListeners_Golden(t *testing.T) {
	t.Parallel()

	s, _ := newTestSvc(t)

	url := "https://example.com/file"
	ch1, _ := s.TransferListener(url)
	ch2, _ := s.TransferListener(url)

	s.publishTransferUpdate(dto.TransferNotification{
		Source:      url,
		Destination: "/tmp/x",
		Status:      dto.IN_PROGRESS,
		Percentage:  50,
	})

	for i, ch := range []<-chan dto.TransferNotification{ch1, ch2} {
		select {
		case n := <-ch:
			if n.Status != dto.IN_PROGRESS {
				t.Fatalf("ch%d status=%s want %s", i+1, n.Status, dto.IN_PROGRESS)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("timeout waiting for ch%d update", i+1)
		}
	}

	s.publishTransferUpdate(dto.TransferNotification{
		Source:      url,
		Destination: "/tmp/x",
		Status:      dto.COMPLETE,
		Percentage:  100,
	})

	for i, ch := range []<-chan dto.TransferNotification{ch1, ch2} {
		select {
		case n := <-ch:
			if n.Status != dto.COMPLETE {
				t.Fatalf("ch%d status=%s want %s", i+1, n.Status, dto.COMPLETE)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("timeout waiting for ch%d COMPLETE", i+1)
		}
	}

	if got := s.State().TransfersStatus["/tmp/x"].Status; got != dto.COMPLETE {
		t.Fatalf("transfer state = %s", got)
	}
}

func TestNetSvc_TransferListener_UnsubscribeAfterClose(t *testing.T) {
	t.Parallel()

	s, _ := newTestSvc(t)
	url := "https://example.com/file"
	ch, unsub := s.TransferListener(url)

	s.TransferListenerClose(url)
	if _, open := <-ch; open {
		t.Fatalf("channel should be closed")
	}
	// must not panic on double close
	unsub()
	unsub()
}

func TestNetSvc_TerminalUpdateEvictsQueuedProgress(t *testing.T) {
	t.Parallel()

	s, _ := newTestSvc(t)
	url := "https://example.com/slides.pdf"
	ch, unsub := s.TransferListener(url)
	defer unsub()

	// nobody reads, so the buffer fills and later progress is dropped
	for i := 0; i < 25; i++ {
		s.publishTransferUpdate(dto.TransferNotification{
			Source:      url,
			Destination: "/tmp/slides.pdf",
			Status:      dto.IN_PROGRESS,
			Percentage:  float64(i),
		})
	}
	s.publishTransferUpdate(dto.TransferNotification{
		Source:      url,
		Destination: "/tmp/slides.pdf",
		Status:      dto.COMPLETE,
		Percentage:  100,
	})

	var last dto.TransferNotification
	for len(ch) > 0 {
		last = <-ch
	}
	if last.Status != dto.COMPLETE {
		t.Fatalf("last queued status=%s want %s", last.Status, dto.COMPLETE)
	}
}

func TestProgressReader_ReportsAndStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var reports []int64
	pr := newProgressReader(ctx, strings.NewReader(strings.Repeat("x", 100)), 100, 0, func(read, total int64) {
		reports = append(reports, read)
	})

	buf := make([]byte, 40)
	for i := 0; i < 2; i++ {
		if _, err := pr.Read(buf); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
	}
	if len(reports) != 2 || reports[1] != 80 {
		t.Fatalf("reports=%v", reports)
	}
	if got := percentOf(80, 100); got != 80 {
		t.Fatalf("percentOf=%v", got)
	}

	cancel()
	if _, err := pr.Read(buf); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
}
