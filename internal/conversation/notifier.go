package conversation

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/hammamikhairi/nutricalc/internal/domain"
	"github.com/hammamikhairi/nutricalc/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

var (
	noticeColor = color.New(color.FgCyan, color.Bold)
	urgentColor = color.New(color.FgRed, color.Bold)
)

// PrintFunc is a function used to print formatted output.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes notifications to stdout. Colors follow color.NoColor.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewCLINotifier creates a stdout-based notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s", noticeColor.Sprint(message))
	return nil
}

// NotifyUrgent prints an urgent notification in bold red.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s", urgentColor.Sprint(message))
	return nil
}
