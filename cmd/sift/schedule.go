package main

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger adapts zap to cron.Logger. Scheduler chatter goes to Debug.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}

// newScheduler returns a cron scheduler that logs through logger.
func newScheduler(logger *zap.Logger) *cron.Cron {
	return cron.New(cron.WithLogger(cronLogger{s: logger.Sugar()}))
}

// skipOverlapping wraps run so a firing is dropped while the previous one is still going.
func skipOverlapping(logger *zap.Logger, run func()) cron.Job {
	return cron.NewChain(cron.SkipIfStillRunning(cronLogger{s: logger.Sugar()})).Then(cron.FuncJob(run))
}
