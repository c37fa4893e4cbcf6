package logsvc

import (
	"go.uber.org/zap"

	"github.com/tailcraft/avialearn/core"
)

// ZapLogger is the default development logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger(conf *core.Config) (*ZapLogger, error) {
	var (
		zl  *zap.Logger
		err error
	)
	if conf.Debug {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: zl.Sugar().Named(conf.AppName)}, nil
}

func (l ZapLogger) Sync() error { return l.sugar.Sync() }

func (l ZapLogger) Debug(msg string, args ...interface{}) { l.sugar.Debugw(msg, "args", args) }
func (l ZapLogger) Info(msg string, args ...interface{})  { l.sugar.Infow(msg, "args", args) }
func (l ZapLogger) Warn(msg string, args ...interface{})  { l.sugar.Warnw(msg, "args", args) }
func (l ZapLogger) Error(msg string, args ...interface{}) { l.sugar.Errorw(msg, "args", args) }
func (l ZapLogger) Fatal(msg string, args ...interface{}) { l.sugar.Fatalw(msg, "args", args) }
