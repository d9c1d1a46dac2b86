// Package cmdline renders progress and evaluation reports for the glot CLI.
package cmdline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/Azure/glot/pkg/evaluate"
)

var (
	yellow = color.New(color.FgHiYellow, color.Bold)
	green  = color.New(color.FgHiGreen, color.Bold)
	cyan   = color.New(color.FgCyan)
	red    = color.New(color.FgHiRed).Add(color.Italic)
)

// cmdline holds the resolved options of one rendering call.
type cmdline struct {
	opts options
}

func newCmdline(opts ...Option) *cmdline {
	cli := new(cmdline)
	DefaultOpts()(&cli.opts)
	for _, opt := range opts {
		opt(&cli.opts)
	}
	if out := cli.opts.stdout; isTerminal(out) {
		initTerminal(out)
	} else {
		NoColor()(&cli.opts)
	}
	return cli
}

func (cli *cmdline) paint(c *color.Color, a ...interface{}) string {
	if !cli.opts.color {
		return fmt.Sprint(a...)
	}
	// the package-level default follows os.Stdout, not opts.stdout
	painted := *c
	painted.EnableColor()
	return painted.Sprint(a...)
}

// Progress shows a spinner after msg until the returned function is called,
// then reports success or failure with the elapsed time. Nothing is drawn
// when stdout is not a terminal.
func Progress(ctx context.Context, msg string, opts ...Option) func(err error) {
	cli := newCmdline(opts...)
	if !isTerminal(cli.opts.stdout) {
		return func(error) {}
	}

	start := time.Now()
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m := cli.paint(cyan, msg)
		s := `-\|/-`
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-time.After(100 * time.Millisecond):
				fmt.Fprintf(cli.opts.stdout, "\r%s %c", m, s[i%len(s)])
			}
		}
	}()

	var once sync.Once
	return func(err error) {
		once.Do(func() {
			close(done)
			wg.Wait()
			if err != nil {
				fmt.Fprintf(cli.opts.stderr, "\r%s  (%.4fs)\n", cli.failStr(msg), time.Since(start).Seconds())
				return
			}
			fmt.Fprintf(cli.opts.stdout, "\r%s  (%.4fs)\n", cli.passStr(msg), time.Since(start).Seconds())
		})
	}
}

// Report prints one row per evaluation result, colouring the accuracy.
func Report(results []evaluate.Result, opts ...Option) {
	cli := newCmdline(opts...)

	table := uitable.New()
	table.AddRow("CONFIG", "CASES", "CORRECT", "ACCURACY")
	for _, r := range results {
		table.AddRow(r.Config.String(), r.Cases, r.Correct, cli.accuracy(r.Accuracy))
	}
	fmt.Fprintln(cli.opts.stdout, table)
}

func (cli *cmdline) accuracy(a float64) string {
	s := fmt.Sprintf("%.3f", a)
	switch {
	case a >= 0.8:
		return cli.paint(green, s)
	case a >= 0.5:
		return cli.paint(yellow, s)
	default:
		return cli.paint(red, s)
	}
}

func (cli *cmdline) passStr(msg string) string {
	return fmt.Sprintf("%s: %s", cli.paint(green, msg), concatStrAndEmoji("SUCCESS", " ⚓ ", cli.opts.displayEmoji))
}

func (cli *cmdline) failStr(msg string) string {
	return fmt.Sprintf("%s: %s", cli.paint(red, msg), concatStrAndEmoji("FAIL", " ❌ ", cli.opts.displayEmoji))
}

func concatStrAndEmoji(text string, emoji string, displayEmoji bool) string {
	var concatStr strings.Builder
	concatStr.WriteString(text)
	if displayEmoji {
		concatStr.WriteString(emoji)
	}
	return concatStr.String()
}
