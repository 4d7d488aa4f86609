package relays

import (
	"log/slog"

	relayDTO "github.com/joy-dx/relay/dto"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapRelay writes relay events to a zap.Logger, for hosts that already log
// with zap. Fields match SlogRelay.
type ZapRelay struct {
	logger *zap.Logger
}

func NewZapRelay(logger *zap.Logger) *ZapRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapRelay{logger: logger}
}

func (r *ZapRelay) Debug(data relayDTO.RelayEventInterface) { r.log(zapcore.DebugLevel, data) }
func (r *ZapRelay) Info(data relayDTO.RelayEventInterface)  { r.log(zapcore.InfoLevel, data) }
func (r *ZapRelay) Warn(data relayDTO.RelayEventInterface)  { r.log(zapcore.WarnLevel, data) }
func (r *ZapRelay) Error(data relayDTO.RelayEventInterface) { r.log(zapcore.ErrorLevel, data) }

// Fatal logs at error level. Exiting is left to the caller.
func (r *ZapRelay) Fatal(data relayDTO.RelayEventInterface) {
	r.log(zapcore.ErrorLevel, data, zap.Bool("fatal", true))
}

func (r *ZapRelay) Meta(data relayDTO.RelayEventInterface) { r.log(zapcore.DebugLevel, data) }

func (r *ZapRelay) log(level zapcore.Level, data relayDTO.RelayEventInterface, extra ...zap.Field) {
	if data == nil {
		return
	}
	ce := r.logger.Check(level, data.Message())
	if ce == nil {
		return
	}
	attrs := data.ToSlog()
	fields := make([]zap.Field, 0, 2+len(extra)+len(attrs))
	fields = append(fields,
		zap.String("channel", string(data.RelayChannel())),
		zap.String("type", string(data.RelayType())),
	)
	fields = append(fields, extra...)
	for _, a := range attrs {
		fields = append(fields, zapField(a))
	}
	ce.Write(fields...)
}

func zapField(a slog.Attr) zap.Field {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return zap.String(a.Key, v.String())
	case slog.KindInt64:
		return zap.Int64(a.Key, v.Int64())
	case slog.KindUint64:
		return zap.Uint64(a.Key, v.Uint64())
	case slog.KindFloat64:
		return zap.Float64(a.Key, v.Float64())
	case slog.KindBool:
		return zap.Bool(a.Key, v.Bool())
	case slog.KindDuration:
		return zap.Duration(a.Key, v.Duration())
	case slog.KindTime:
		return zap.Time(a.Key, v.Time())
	default:
		return zap.Any(a.Key, v.Any())
	}
}
