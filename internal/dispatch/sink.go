// Package dispatch передаёт уровни света на контроллеры.
package dispatch

import (
	"context"

	"go.uber.org/zap"
)

// Level — уровень одной точки с адресом её контроллера.
type Level struct {
	PointID  int64 `json:"point_id"`
	Adr      int   `json:"adr"`
	Position int   `json:"position"`
	Val      int   `json:"val"`
}

// Sink is the fixture transport.
type Sink interface {
	Apply(ctx context.Context, levels []Level) error
	Identify(ctx context.Context, target Level) error
	Close()
}

// LogSink только пишет уровни в лог; используется, когда брокер не настроен.
type LogSink struct {
	logger *zap.SugaredLogger
}

var _ Sink = (*LogSink)(nil)

func NewLogSink(logger *zap.SugaredLogger) *LogSink {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Apply(_ context.Context, levels []Level) error {
	for _, l := range levels {
		s.logger.Infow("light level", "point_id", l.PointID, "adr", l.Adr, "position", l.Position, "val", l.Val)
	}
	return nil
}

func (s *LogSink) Identify(_ context.Context, target Level) error {
	s.logger.Infow("identify", "point_id", target.PointID, "adr", target.Adr, "position", target.Position)
	return nil
}

func (s *LogSink) Close() {}
