package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/lehigh-university-libraries/storagecalc/internal/estimator"
	"github.com/lehigh-university-libraries/storagecalc/internal/registry"
)

const header = `Storage calculator
Enter one line for each image/group on the format "[type] [width] [height]"
or "G i, i, ...". Exit with "Q". Input is not case-sensitive
`

// Shell drives an estimator session from text input.
type Shell struct {
	session *estimator.Session
	out     io.Writer
	human   bool
	verbose bool
}

// Options tunes what the shell prints.
type Options struct {
	// HumanReadable appends sizes such as "(263 kB)" to byte counts.
	HumanReadable bool
	// ShowLevels prints every pyramid level of a new image.
	ShowLevels bool
}

// New returns a shell writing to out.
func New(session *estimator.Session, out io.Writer, opts Options) *Shell {
	return &Shell{
		session: session,
		out:     out,
		human:   opts.HumanReadable,
		verbose: opts.ShowLevels,
	}
}

// Session returns the session the shell feeds.
func (sh *Shell) Session() *estimator.Session {
	return sh.session
}

// Run prints the header, then executes lines from in until a quit command,
// end of input or ctx is done, and finally prints the total. Cancellation
// is noticed while waiting for input, not only between lines.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprint(sh.out, header+"\n")

	done := make(chan struct{})
	defer close(done)
	lines, readErr := scanLines(in, done)

	for {
		if ctx.Err() != nil {
			return sh.interrupted(ctx)
		}

		select {
		case <-ctx.Done():
			return sh.interrupted(ctx)
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				sh.printTotal()
				return nil
			}
			if quit := sh.Exec(line); quit {
				sh.printTotal()
				return nil
			}
		}
	}
}

func (sh *Shell) interrupted(ctx context.Context) error {
	slog.Info("Input interrupted", "session_id", sh.session.ID)
	sh.printTotal()
	return ctx.Err()
}

// scanLines reads in on its own goroutine. The goroutine stops once done is
// closed, or stays parked in a blocking Read until in returns.
func scanLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()

	return lines, readErr
}

// Exec runs a single line and reports whether it asked to quit.
func (sh *Shell) Exec(line string) bool {
	cmd, err := Parse(line)
	if err != nil {
		slog.Debug("Rejected input", "line", line, "err", err)
		fmt.Fprintln(sh.out, "[invalid input]")
		return false
	}

	switch cmd.Kind {
	case KindQuit:
		return true
	case KindCreate:
		img, err := sh.session.Create(cmd.Format, cmd.Width, cmd.Height)
		if err != nil {
			slog.Error("Failed to estimate image", "err", err)
			fmt.Fprintln(sh.out, "[invalid input]")
			return false
		}
		fmt.Fprintf(sh.out, "[%s] size: %s  index: %d\n", img.Format(), sh.size(img.Size()), img.ID())
		if sh.verbose {
			for _, l := range sh.session.Levels(img) {
				fmt.Fprintf(sh.out, "  level %dx%d: %s\n", l.Width, l.Height, sh.size(l.Size))
			}
		}
		fmt.Fprintln(sh.out)
	case KindGroup:
		fmt.Fprintln(sh.out, "[grouping images]")
		sh.printGroup(sh.session.Group(cmd.IDs))
	}
	return false
}

func (sh *Shell) printGroup(res registry.GroupResult) {
	for _, m := range res.Members {
		fmt.Fprintf(sh.out, "[%d]  size: %s\n", m.ID, sh.size(m.Size))
	}
	fmt.Fprintln(sh.out)
	fmt.Fprintf(sh.out, "previous size of images: %s\n", sh.size(res.PreCompression))
	fmt.Fprintf(sh.out, "total compressed size: %s\n", sh.size(res.Compressed))
	fmt.Fprintln(sh.out)
}

func (sh *Shell) printTotal() {
	fmt.Fprintln(sh.out)
	fmt.Fprintf(sh.out, "Total size: %s bytes\n", sh.signed(sh.session.Total()))
}

func (sh *Shell) size(n uint64) string {
	if !sh.human {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s (%s)", humanize.Comma(int64(n)), humanize.Bytes(n))
}

func (sh *Shell) signed(n int64) string {
	if !sh.human {
		return fmt.Sprintf("%d", n)
	}
	return humanize.Comma(n)
}
