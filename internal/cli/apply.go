package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/benoit-pereira-da-silva/charmap/pkg/textual"
)

type applyOptions struct {
	sources  sourceFlags
	encoding string
	chunk    int
	maxToken int
	timeout  time.Duration
}

func applyCmd(g *globals) *cobra.Command {
	o := &applyOptions{}
	cmd := &cobra.Command{
		Use:   "apply [file...]",
		Short: "map files, or stdin, to stdout",
		Long: "Reads each file in turn (stdin when none is given or for \"-\"), " +
			"maps every character and writes the result to stdout. Input is " +
			"processed line by line, or in chunks of --chunk bytes. With " +
			"--encoding and no table, the input is only decoded to UTF-8.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), g.logger, o, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	o.sources.register(cmd)
	cmd.Flags().StringVarP(&o.encoding, "encoding", "e", "", "input encoding (IANA name), decoded to UTF-8")
	cmd.Flags().IntVar(&o.chunk, "chunk", 0, "process the input in chunks of this many bytes instead of lines")
	cmd.Flags().IntVar(&o.maxToken, "max-token", 0, "largest line or chunk accepted, in bytes")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "abort the processing of each input after this long (0 for none)")
	return cmd
}

func runApply(ctx context.Context, logger *slog.Logger, o *applyOptions, args []string, stdin io.Reader, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := textual.LookupEncoding(o.encoding); err != nil {
		return err
	}

	var stage textual.Processor[textual.String]
	m, err := o.sources.build(ctx, logger)
	switch {
	case errors.Is(err, ErrNothingToApply) && o.encoding != "":
		logger.Debug("no table, transcoding only", "encoding", o.encoding)
		stage = textual.IdentityProcessor[textual.String]{}
	case err != nil:
		return err
	default:
		defer m.Close()
		stage = textual.CharMap[textual.String](m.mapper)
	}

	if len(args) == 0 {
		args = []string{"-"}
	}
	w := bufio.NewWriter(stdout)
	for _, name := range args {
		if err := applyOne(ctx, logger, o, stage, name, stdin, w); err != nil {
			_ = w.Flush()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	if m != nil {
		return m.Err()
	}
	return nil
}

func applyOne(ctx context.Context, logger *slog.Logger, o *applyOptions, stage textual.Processor[textual.String], name string, stdin io.Reader, w io.Writer) error {
	var in io.Reader = stdin
	if name != "-" {
		path, err := homedir.Expand(name)
		if err != nil {
			return fmt.Errorf("error expanding %q: %w", name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	in, err := textual.NewUTF8Reader(in, o.encoding)
	if err != nil {
		return err
	}

	chain := textual.NewChain[textual.String](
		stage,
		textual.Slog[textual.String](logger.With("input", name), "mapped"),
	)
	p := textual.NewIOReaderProcessor[textual.String](chain, in)
	p.SetContext(ctx)
	maxToken := o.maxToken
	if o.chunk > 0 {
		p.SetSplitFunc(textual.ScanChunks(o.chunk))
		// The scanner buffer must hold a whole chunk.
		if maxToken > 0 || o.chunk > bufio.MaxScanTokenSize {
			maxToken = max(maxToken, o.chunk)
		}
	}
	if maxToken > 0 {
		p.SetMaxTokenSize(maxToken)
	}

	var werr error
	for item := range p.StartWithTimeout(o.timeout) {
		if werr != nil {
			continue
		}
		if _, werr = io.WriteString(w, item.Value); werr != nil {
			p.Stop()
		}
	}
	if werr != nil {
		return fmt.Errorf("error writing output: %w", werr)
	}
	if err := p.Err(); err != nil {
		return fmt.Errorf("error processing %s: %w", name, err)
	}
	return nil
}
