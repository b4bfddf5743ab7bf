package main

import (
	"fmt"
	"log/slog"
)

// slogAdapter bridges the engine's Logger interface onto the process
// slog default.
type slogAdapter struct{}

func (slogAdapter) Debugf(format string, args ...any) { slog.Debug(fmt.Sprintf(format, args...)) }
func (slogAdapter) Infof(format string, args ...any)  { slog.Info(fmt.Sprintf(format, args...)) }
func (slogAdapter) Warnf(format string, args ...any)  { slog.Warn(fmt.Sprintf(format, args...)) }
func (slogAdapter) Errorf(format string, args ...any) { slog.Error(fmt.Sprintf(format, args...)) }
