// Package cli implements the interactive console on top of the address book.
//
// One goroutine owns the book: Run reads lines from a helper goroutine and
// executes every command itself. The optional HTTP feed only receives encoded
// calendar snapshots.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
	"github.com/tartampluch/go-addressbook/internal/server"
)

// Publisher serves calendar snapshots until its context is cancelled.
type Publisher interface {
	Start(ctx context.Context) error
	Update(data []byte)
}

// App is the console session state.
type App struct {
	Book      *addressbook.AddressBook
	Clock     engine.Clock
	Settings  *config.Settings
	Tr        *Translator
	Loader    *engine.Loader
	Generator *engine.Generator

	In  io.Reader
	Out io.Writer

	// NewPublisher builds the serve backend. Tests replace it to avoid binding ports.
	NewPublisher func(port int) Publisher

	styled  bool
	serving *feed
}

// feed tracks a running serve command.
type feed struct {
	pub    Publisher
	url    string
	cancel context.CancelFunc
	done   chan error
}

// New wires an App with default collaborators.
func New(settings *config.Settings, clock engine.Clock, in io.Reader, out io.Writer) *App {
	tr := NewTranslator(settings.Language)
	return &App{
		Book:      addressbook.New(),
		Clock:     clock,
		Settings:  settings,
		Tr:        tr,
		Loader:    &engine.Loader{Fetcher: engine.NewHTTPFetcher()},
		Generator: &engine.Generator{Clock: clock, FormatSummary: tr.Summary},
		In:        in,
		Out:       out,
		NewPublisher: func(port int) Publisher {
			return server.NewCalendarServer(port)
		},
		styled: isTTY(out),
	}
}

// Run executes commands until close/exit, end of input or ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, config.ChannelBufferSize)
	go readLines(ctx, a.In, lines, readErr)

	a.println(a.Tr.Msg(config.TKeyWelcome, nil))
	a.println(a.Tr.Msg(config.TKeyHelp, nil))
	defer a.stopServing()

	for {
		a.print(a.Tr.Msg(config.TKeyPrompt, nil))

		select {
		case <-ctx.Done():
			slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompCLI)
			a.println("")
			a.println(a.Tr.Msg(config.TKeyGoodbye, nil))
			return nil

		case err := <-a.feedDone():
			// The notice breaks the pending prompt line; the loop prints a fresh one.
			a.serving.cancel()
			a.serving = nil
			a.println("")
			a.reportFeedEnd(err)

		case line, ok := <-lines:
			if !ok {
				a.println("")
				a.println(a.Tr.Msg(config.TKeyGoodbye, nil))
				if err := <-readErr; err != nil {
					return fmt.Errorf("%s: %w", config.ErrReadInput, err)
				}
				return nil
			}
			if a.Execute(ctx, line) {
				return nil
			}
		}
	}
}

// readLines forwards input lines until EOF or cancellation, then reports the
// scanner error (nil on EOF) and closes lines.
func readLines(ctx context.Context, in io.Reader, lines chan<- string, readErr chan<- error) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			readErr <- nil
			return
		}
	}
	readErr <- scanner.Err()
}

func (a *App) print(s string) {
	_, _ = fmt.Fprint(a.Out, s)
}

func (a *App) println(s string) {
	_, _ = fmt.Fprintln(a.Out, s)
}

// feedDone returns the running feed's result channel, or nil so that a
// select on it blocks when nothing is being served.
func (a *App) feedDone() <-chan error {
	if a.serving == nil {
		return nil
	}
	return a.serving.done
}

func (a *App) reportFeedEnd(err error) {
	slog.Info(config.MsgServeEnded,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyError, err,
	)
	if err != nil {
		a.println(a.Tr.Msg(config.TKeyServeFailed, map[string]any{"Value": err.Error()}))
		return
	}
	a.println(a.Tr.Msg(config.TKeyServeStopped, nil))
}

// stopServing cancels the feed and waits for its graceful shutdown.
func (a *App) stopServing() {
	if a.serving == nil {
		return
	}
	a.serving.cancel()
	err := <-a.serving.done
	a.serving = nil
	slog.Info(config.MsgServeEnded,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyError, err,
	)
}

// publish pushes a fresh calendar snapshot to the running feed, if any,
// and returns the number of birthdays in it that fall today.
func (a *App) publish(ctx context.Context) int {
	if a.serving == nil {
		return 0
	}
	data, today, err := a.Generator.Calendar(ctx, a.Book.Records(), a.Settings.ReminderTrigger)
	if err != nil {
		slog.Warn(config.MsgPublishFailed,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyError, err,
		)
		return 0
	}
	a.serving.pub.Update(data)
	return today
}
