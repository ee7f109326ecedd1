// Command rmmtree builds a range min-max tree index over a
// parenthesis string given on the command line, and reports how long
// construction took.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/balanced-tree/rmmtree/internal/bitvec"
	"github.com/balanced-tree/rmmtree/internal/rmm"
	"github.com/balanced-tree/rmmtree/internal/rmmerr"
)

var (
	workers int
	verbose bool
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cmd := &cobra.Command{
		Use:          "rmmtree <parens>",
		Short:        "Build a range min-max tree over a balanced parenthesis string",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return build(cmd.Context(), log, args[0])
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "P", 4, "number of parallel construction workers")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if rerr, ok := asRMMError(err); ok && rerr.Code == rmmerr.CodeInputTooSmall {
			return 2
		}
		return 1
	}
	return 0
}

func build(ctx context.Context, log *logrus.Logger, input string) error {
	log.WithFields(logrus.Fields{"workers": workers, "length": len(input)}).Debug("parsing input")

	bv, err := bitvec.NewFromParenString(input)
	if err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	log.WithField("n", bv.Len()).Debug("starting construction")
	start := time.Now()

	idx, err := rmm.Build(ctx, bv, bv.Len(), workers)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	log.WithFields(logrus.Fields{
		"numChunks": idx.NumChunks(),
		"height":    idx.Height(),
		"elapsed":   elapsed,
	}).Debug("construction complete")

	fmt.Printf("%d,%s,%d,%f\n", workers, input, bv.Len(), elapsed.Seconds())
	return nil
}

func asRMMError(err error) (*rmmerr.Error, bool) {
	rerr, ok := err.(*rmmerr.Error)
	return rerr, ok
}
