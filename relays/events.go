package relays

import (
	"log/slog"
	"time"

	"github.com/joy-dx/authnet/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

const (
	RlyNetChannel  relayDTO.EventChannel = "net"
	RlyAuthChannel relayDTO.EventChannel = "net.auth"

	RlyNetLogRef      relayDTO.EventRef = "net.log"
	RlyNetDownloadRef relayDTO.EventRef = "net.download"
	RlyNetRequestRef  relayDTO.EventRef = "net.request"
	RlyAuthRecoverRef relayDTO.EventRef = "net.auth.recovery"
)

// RlyNetLog is a free form message from the net service.
type RlyNetLog struct {
	Msg string
}

func (e RlyNetLog) RelayChannel() relayDTO.EventChannel { return RlyNetChannel }
func (e RlyNetLog) RelayType() relayDTO.EventRef        { return RlyNetLogRef }
func (e RlyNetLog) Message() string                     { return e.Msg }
func (e RlyNetLog) ToSlog() []slog.Attr                 { return nil }

// RlyNetDownload reports download progress and terminal states.
type RlyNetDownload struct {
	Source      string
	Destination string
	Status      dto.TransferStatus
	Percentage  float64
	Msg         string
}

func (e RlyNetDownload) RelayChannel() relayDTO.EventChannel { return RlyNetChannel }
func (e RlyNetDownload) RelayType() relayDTO.EventRef        { return RlyNetDownloadRef }
func (e RlyNetDownload) Message() string                     { return e.Msg }
func (e RlyNetDownload) ToSlog() []slog.Attr {
	return []slog.Attr{
		slog.String("source", e.Source),
		slog.String("destination", e.Destination),
		slog.String("status", string(e.Status)),
		slog.Float64("percentage", e.Percentage),
	}
}

// RlyNetRequest is emitted once per round trip, including replays.
type RlyNetRequest struct {
	Method  string
	URL     string
	Status  int
	Retried bool
	Elapsed time.Duration
	Err     error
}

func (e RlyNetRequest) RelayChannel() relayDTO.EventChannel { return RlyNetChannel }
func (e RlyNetRequest) RelayType() relayDTO.EventRef        { return RlyNetRequestRef }
func (e RlyNetRequest) Message() string                     { return e.Method + " " + e.URL }
func (e RlyNetRequest) ToSlog() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("method", e.Method),
		slog.String("url", e.URL),
		slog.Int("status", e.Status),
		slog.Bool("retried", e.Retried),
		slog.Duration("elapsed", e.Elapsed),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}

// RlyAuthRecovery describes the result of a 401 refresh-and-replay cycle.
type RlyAuthRecovery struct {
	Method    string
	URL       string
	Outcome   dto.RecoveryOutcome
	LoginPath string
	Err       error
	Msg       string
}

func (e RlyAuthRecovery) RelayChannel() relayDTO.EventChannel { return RlyAuthChannel }
func (e RlyAuthRecovery) RelayType() relayDTO.EventRef        { return RlyAuthRecoverRef }
func (e RlyAuthRecovery) Message() string                     { return e.Msg }
func (e RlyAuthRecovery) ToSlog() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("method", e.Method),
		slog.String("url", e.URL),
		slog.String("outcome", string(e.Outcome)),
	}
	if e.LoginPath != "" {
		attrs = append(attrs, slog.String("login_path", e.LoginPath))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}
