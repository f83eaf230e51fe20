// Package console provides a demo consumer that drains a mailbox and
// renders deliveries as tables on a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/web3tea/logrelay/mailbox"
	"github.com/web3tea/logrelay/models"
)

// Printer consumes a mailbox and pretty-prints each Delivery. Flush tokens
// force the output writer to sync if it supports it.
type Printer struct {
	mbox *mailbox.Mailbox
	out  io.Writer

	colorEnabled   bool
	maxColumnWidth int
}

type Option func(*Printer)

// WithOutput redirects the printer's output, os.Stdout by default.
func WithOutput(w io.Writer) Option {
	return func(p *Printer) {
		p.out = w
	}
}

// WithColor enables or disables colored level markers.
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		p.colorEnabled = enabled
	}
}

// WithMaxColumnWidth sets the truncation width for metadata values.
func WithMaxColumnWidth(width int) Option {
	return func(p *Printer) {
		p.maxColumnWidth = width
	}
}

func NewPrinter(mbox *mailbox.Mailbox, options ...Option) *Printer {
	p := &Printer{
		mbox:           mbox,
		out:            os.Stdout,
		colorEnabled:   true,
		maxColumnWidth: 80,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Run drains the mailbox until it closes or ctx is done.
func (p *Printer) Run(ctx context.Context) {
	for {
		msg, ok := p.mbox.Receive(ctx)
		if !ok {
			return
		}
		switch msg := msg.(type) {
		case models.Delivery:
			p.printDelivery(msg)
		case models.Flush:
			if f, ok := p.out.(*os.File); ok {
				_ = f.Sync()
			}
		default:
			fmt.Fprintf(p.out, "%v\n", msg)
		}
	}
}

func (p *Printer) printDelivery(d models.Delivery) {
	levelText := p.levelColor(d.Level)(d.Level.String())

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.AppendRow(table.Row{"Level", levelText})
	t.AppendRow(table.Row{"Time", d.Timestamp.Format(time.RFC3339)})
	t.AppendRow(table.Row{"Message", p.truncate(d.Message)})
	for _, f := range d.Metadata {
		t.AppendRow(table.Row{f.Key, p.truncate(fmt.Sprintf("%v", f.Value))})
	}
	t.SetStyle(table.StyleLight)
	t.Style().Title.Align = text.AlignCenter
	t.Render()
}

func (p *Printer) levelColor(level models.Level) func(a ...interface{}) string {
	if !p.colorEnabled {
		return fmt.Sprint
	}
	switch level {
	case models.LevelError:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case models.LevelWarning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case models.LevelInfo:
		return color.New(color.FgGreen).SprintFunc()
	default:
		return color.New(color.FgBlue).SprintFunc()
	}
}

func (p *Printer) truncate(str string) string {
	width := p.maxColumnWidth
	if width < 4 {
		width = 4
	}
	runes := []rune(str)
	if len(runes) <= width {
		return str
	}
	return string(runes[:width-3]) + "..."
}
