package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/pipeline"
)

// Progress modes accepted by --progress.
const (
	progressAuto    = "auto"
	progressTUI     = "tui"
	progressSpinner = "spinner"
	progressPlain   = "plain"
)

var progressModes = []string{progressAuto, progressTUI, progressSpinner, progressPlain}

// resolveProgress maps auto to a concrete mode for the current terminal.
func resolveProgress(mode string) (string, error) {
	switch mode {
	case "", progressAuto:
		if isTerminal(os.Stdin) && isTerminal(os.Stderr) {
			return progressTUI, nil
		}
		return progressPlain, nil
	case progressTUI, progressSpinner, progressPlain:
		return mode, nil
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "unknown progress mode %q (want auto, tui, spinner or plain)", mode)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runJob executes opts and reports progress in the requested mode.
func (c *CLI) runJob(ctx context.Context, title string, opts pipeline.Options, mode string) (*pipeline.Result, error) {
	mode, err := resolveProgress(mode)
	if err != nil {
		return nil, err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	// Validate up front so usage errors print plainly in every mode.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	c.Logger.Debug("starting run", "formats", opts.Formats, "packages", opts.Packages, "progress", mode)

	switch mode {
	case progressPlain:
		return runner.Execute(ctx, opts)
	case progressSpinner:
		opts.Logger = c.quietLogger()
		return runWithSpinner(ctx, runner.Start(ctx, opts), title)
	default:
		opts.Logger = c.quietLogger()
		return runWithTUI(ctx, runner.Start(ctx, opts), title)
	}
}

// quietLogger keeps errors visible while a live display owns the terminal.
func (c *CLI) quietLogger() *log.Logger {
	l := c.Logger.With()
	l.SetLevel(log.ErrorLevel)
	return l
}

func runWithSpinner(ctx context.Context, job *pipeline.Job, title string) (*pipeline.Result, error) {
	s := newSpinnerWithContext(ctx, title)
	s.Start()
	for ev := range job.Events() {
		s.SetMessage(eventMessage(title, ev))
	}
	s.Stop()
	return job.Wait()
}

func runWithTUI(ctx context.Context, job *pipeline.Job, title string) (*pipeline.Result, error) {
	p := tea.NewProgram(NewProgressModel(title, job),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr))
	if _, err := p.Run(); err != nil {
		job.Cancel()
		// Drain so the job can finish emitting.
		go func() {
			for range job.Events() {
			}
		}()
		res, jobErr := job.Wait()
		if jobErr != nil {
			return res, jobErr
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, errs.Wrap(errs.ErrCodeInternal, err, "progress display")
	}
	return job.Wait()
}

// eventMessage renders an event as a one-line status.
func eventMessage(title string, ev pipeline.Event) string {
	switch ev.Stage {
	case pipeline.StageExpanded:
		return fmt.Sprintf("%s expanded %d records", title, ev.Done)
	case pipeline.StageSerialized:
		return fmt.Sprintf("%s serializing %s %s (%d/%d)", title, ev.Format, ev.Package, ev.Done, ev.Total)
	case pipeline.StageWritten:
		return fmt.Sprintf("%s writing %d/%d", title, ev.Done, ev.Total)
	}
	return title
}

// printResult summarizes a finished run.
func printResult(res *pipeline.Result, root string) {
	if res == nil {
		return
	}
	if len(res.Files) > 0 {
		printSuccess("Wrote %s files to %s", StyleNumber.Render(fmt.Sprint(len(res.Files))), root)
		for _, f := range res.Files {
			printFile(f.Path)
		}
	}
	for _, f := range res.Failed {
		printError("%s: %s", f.Path, f.Message)
	}
	cached := res.CacheInfo.Hits > 0 && res.CacheInfo.Misses == 0
	printStats(res.Records, len(res.Files), cached)
}
