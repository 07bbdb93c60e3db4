// Package logging wraps uber/zap for the desktop server.
//
// Production output is JSON on stdout; development mode switches to a
// colored console encoder at debug level. Subsystems take a component
// scope so log lines name their origin:
//
//	logger, _ := logging.New("info", false)
//	dockLog := logger.Component("dock")
//	dockLog.Debug("engine settled", zap.Int("ticks", ticks))
package logging
