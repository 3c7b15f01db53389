package resource

import (
	"go.uber.org/zap"
)

type logObserver struct {
	logger *zap.Logger
}

// NewLogObserver returns an observer that logs every event at debug level.
func NewLogObserver(logger *zap.Logger) Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) OnResourceEvent(e Event) {
	o.logger.Debug("resource event",
		zap.String("event", e.Type.String()),
		zap.String("resource", e.Resource),
		zap.Uint32("handle", uint32(e.Handle)),
		zap.Uint32("rep", e.Rep),
		zap.Uint32("scope", e.Scope),
	)
}
