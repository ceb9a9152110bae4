package cli

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/nutricalc/internal/catalog"
	"github.com/hammamikhairi/nutricalc/internal/conversation"
	"github.com/hammamikhairi/nutricalc/internal/display"
	"github.com/hammamikhairi/nutricalc/internal/domain"
	"github.com/hammamikhairi/nutricalc/internal/engine"
	"github.com/hammamikhairi/nutricalc/internal/logger"
)

type scriptedConsole struct {
	in     chan string
	quit   chan struct{}
	mu     sync.Mutex
	status []string
}

func newScriptedConsole(lines ...string) *scriptedConsole {
	c := &scriptedConsole{in: make(chan string, len(lines)), quit: make(chan struct{})}
	for _, l := range lines {
		c.in <- l
	}
	return c
}

func (c *scriptedConsole) InputChan() <-chan string  { return c.in }
func (c *scriptedConsole) QuitChan() <-chan struct{} { return c.quit }

func (c *scriptedConsole) SetStatus(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = append(c.status, text)
}

type recordingNotifier struct {
	notices []string
	urgent  []string
}

func (n *recordingNotifier) Notify(ctx context.Context, message string) error {
	n.notices = append(n.notices, message)
	return nil
}

func (n *recordingNotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.urgent = append(n.urgent, message)
	return nil
}

var _ domain.Notifier = (*recordingNotifier)(nil)

func newShellEngine(t *testing.T) (*engine.Engine, *conversation.KeywordParser) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	c := catalog.New(log)
	if _, err := c.DefineRawMaterial("flour", domain.Nutrients{Calories: 364, Proteins: 10, Carbs: 76, Fat: 1}); err != nil {
		t.Fatalf("define flour: %v", err)
	}
	return engine.New(c, display.NewRenderer(true), log), conversation.NewKeywordParser(log)
}

func runScript(t *testing.T, con *scriptedConsole, notifier *recordingNotifier) error {
	t.Helper()
	eng, parser := newShellEngine(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return runShell(ctx, con, eng, parser, notifier)
}

func TestShellSession(t *testing.T) {
	con := newScriptedConsole("recipe dough", "add flour 200", "add sugar 10", "report", "quit")
	notifier := &recordingNotifier{}

	if err := runScript(t, con, notifier); err != nil {
		t.Fatalf("shell: %v", err)
	}

	all := strings.Join(notifier.notices, "\n")
	if !strings.Contains(all, "364.0") {
		t.Fatalf("expected dough report in output:\n%s", all)
	}
	if len(notifier.urgent) != 1 || !strings.Contains(notifier.urgent[0], "sugar") {
		t.Fatalf("expected one error about sugar, got %v", notifier.urgent)
	}

	con.mu.Lock()
	defer con.mu.Unlock()
	if len(con.status) == 0 || con.status[0] != "" {
		t.Fatalf("expected an empty status before any selection, got %v", con.status)
	}
	if last := con.status[len(con.status)-1]; last != "editing recipe dough" {
		t.Fatalf("unexpected status %q", last)
	}
}

func TestShellStopsWhenConsoleCloses(t *testing.T) {
	con := newScriptedConsole()
	close(con.quit)

	if err := runScript(t, con, &recordingNotifier{}); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
}

func TestShellStopsOnContext(t *testing.T) {
	eng, parser := newShellEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runShell(ctx, newScriptedConsole(), eng, parser, &recordingNotifier{}); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
