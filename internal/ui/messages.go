package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tungetti/adbkit/internal/scanner"
)

// ResultMsg carries one reachable host.
type ResultMsg struct {
	Result scanner.Result
}

// ProgressMsg reports how many hosts have been probed.
type ProgressMsg struct {
	Done  int
	Total int
}

// DoneMsg signals the end of the scan. Err is nil on success.
type DoneMsg struct {
	Err error
}

// StartScan runs a scan of subnet in the background and returns the channel
// its events are delivered on. The channel is closed after the DoneMsg.
func StartScan(ctx context.Context, opts scanner.Options, subnet string) <-chan tea.Msg {
	events := make(chan tea.Msg, 64)
	send := func(msg tea.Msg) {
		select {
		case events <- msg:
		case <-ctx.Done():
		}
	}

	opts.Progress = func(done, total int) {
		send(ProgressMsg{Done: done, Total: total})
	}
	s := scanner.New(opts)

	go func() {
		defer close(events)
		results := make(chan scanner.Result)
		errc := make(chan error, 1)
		go func() { errc <- s.Scan(ctx, subnet, results) }()
		for r := range results {
			send(ResultMsg{Result: r})
		}
		err := <-errc
		select {
		case events <- DoneMsg{Err: err}:
		case <-ctx.Done():
			// Nobody may be listening anymore; deliver only if buffered.
			select {
			case events <- DoneMsg{Err: err}:
			default:
			}
		}
	}()
	return events
}

// waitForEvent reads the next scan event.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}
