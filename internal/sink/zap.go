package sink

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/HerbHall/hostwatch/pkg/models"
)

// Logger writes events as structured zap log entries.
type Logger struct {
	logger *zap.Logger
}

// Compile-time guard.
var _ Sink = (*Logger)(nil)

// NewLogger returns a sink that logs through logger.
func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger}
}

// Emit logs e at the level matching its severity. Snapshot measurements are
// attached as fields so the output stays machine-readable.
func (l *Logger) Emit(_ context.Context, e models.Event) {
	ce := l.logger.Check(level(e.Severity), e.Message)
	if ce == nil {
		return
	}
	ce.Write(fields(e)...)
}

func level(s models.Severity) zapcore.Level {
	switch s {
	case models.SeverityWarning:
		return zapcore.WarnLevel
	case models.SeverityError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func fields(e models.Event) []zap.Field {
	fs := []zap.Field{
		zap.String("service_label", e.ServiceLabel),
		zap.String("severity", string(e.Severity)),
		zap.String("kind", string(e.Kind)),
		zap.Time("timestamp", e.Timestamp),
	}
	if e.Family != "" {
		fs = append(fs, zap.String("family", string(e.Family)))
	}
	if e.CycleID != "" {
		fs = append(fs, zap.String("cycle_id", e.CycleID))
	}
	if e.Err != nil {
		fs = append(fs, zap.Error(e.Err))
	}
	if e.Elapsed > 0 {
		fs = append(fs, zap.Duration("elapsed", e.Elapsed))
	}
	if snap := e.Snapshot; snap != nil {
		fs = append(fs, zap.Object("measurements", orderedMeasurements{snap}))
		if len(snap.Unsupported) > 0 {
			fs = append(fs, zap.Strings("unsupported", snap.Unsupported))
		}
		if len(snap.Items) > 0 {
			fs = append(fs, zap.Array("items", items(snap.Items)))
		}
	}
	return fs
}

// orderedMeasurements encodes snapshot measurements in name order.
type orderedMeasurements struct{ snap *models.Snapshot }

func (o orderedMeasurements) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, name := range o.snap.MeasurementNames() {
		enc.AddFloat64(name, o.snap.Measurements[name])
	}
	return nil
}

type measurements map[string]float64

func (m measurements) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for k, v := range m {
		enc.AddFloat64(k, v)
	}
	return nil
}

type items []models.Item

func (it items) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, item := range it {
		item := item
		if err := enc.AppendObject(zapcore.ObjectMarshalerFunc(func(oe zapcore.ObjectEncoder) error {
			oe.AddString("name", item.Name)
			return oe.AddObject("measurements", measurements(item.Measurements))
		})); err != nil {
			return err
		}
	}
	return nil
}
