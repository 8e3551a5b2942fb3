// Package cli запускает cobra-команды (коды выхода, цветные ошибки, уровень лога).
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"
)

// UsageError означает неверные аргументы; печатается usage, выход 1.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// MinArgs: как cobra.MinimumNArgs, но ошибка различима через errors.As.
func MinArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return &UsageError{Msg: fmt.Sprintf("requires at least %d arg(s), only received %d", n, len(args))}
		}
		return nil
	}
}

var levels = map[string]logger.TLogLevel{
	"error":   logger.LogLevelError,
	"warning": logger.LogLevelWarning,
	"info":    logger.LogLevelInfo,
	"verbose": logger.LogLevelVerbose,
}

// SetLogLevel переключает уровень лога по имени.
func SetLogLevel(name string) error {
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown log level %q", name)
	}
	logger.SetLogLevel(lvl)
	return nil
}

// Run выполняет cmd с args и возвращает код выхода. Ctrl+C отменяет контекст команды.
func Run(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		fmt.Fprintln(stdout, "Error:", usage.Msg)
		fmt.Fprint(stdout, cmd.UsageString())
		return 1
	}
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintln(stderr, red(err.Error()))
	return 1
}
