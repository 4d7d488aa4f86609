package relays

import (
	"context"
	"log/slog"

	relayDTO "github.com/joy-dx/relay/dto"
)

// SlogRelay writes relay events to a slog.Logger. Channel and type are added
// as attributes ahead of the event's own attributes.
type SlogRelay struct {
	logger *slog.Logger
}

func NewSlogRelay(logger *slog.Logger) *SlogRelay {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogRelay{logger: logger}
}

func (r *SlogRelay) Debug(data relayDTO.RelayEventInterface) { r.log(slog.LevelDebug, data) }
func (r *SlogRelay) Info(data relayDTO.RelayEventInterface)  { r.log(slog.LevelInfo, data) }
func (r *SlogRelay) Warn(data relayDTO.RelayEventInterface)  { r.log(slog.LevelWarn, data) }
func (r *SlogRelay) Error(data relayDTO.RelayEventInterface) { r.log(slog.LevelError, data) }

// Fatal logs at error level. Exiting is left to the caller.
func (r *SlogRelay) Fatal(data relayDTO.RelayEventInterface) {
	r.log(slog.LevelError, data, slog.Bool("fatal", true))
}

func (r *SlogRelay) Meta(data relayDTO.RelayEventInterface) { r.log(slog.LevelDebug, data) }

func (r *SlogRelay) log(level slog.Level, data relayDTO.RelayEventInterface, extra ...slog.Attr) {
	if data == nil {
		return
	}
	ctx := context.Background()
	if !r.logger.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, 0, 2+len(extra))
	attrs = append(attrs,
		slog.String("channel", string(data.RelayChannel())),
		slog.String("type", string(data.RelayType())),
	)
	attrs = append(attrs, extra...)
	attrs = append(attrs, data.ToSlog()...)
	r.logger.LogAttrs(ctx, level, data.Message(), attrs...)
}

type discardRelay struct{}

func (discardRelay) Debug(relayDTO.RelayEventInterface) {}
func (discardRelay) Info(relayDTO.RelayEventInterface)  {}
func (discardRelay) Warn(relayDTO.RelayEventInterface)  {}
func (discardRelay) Error(relayDTO.RelayEventInterface) {}
func (discardRelay) Fatal(relayDTO.RelayEventInterface) {}
func (discardRelay) Meta(relayDTO.RelayEventInterface)  {}

// Discard drops every event.
var Discard relayDTO.RelayInterface = discardRelay{}
