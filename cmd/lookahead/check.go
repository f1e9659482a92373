package main

import (
	"fmt"
	"io"

	"github.com/nihei9/lookahead/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var checkFlags = struct {
	quiet *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Validate a grammar and report ambiguities",
		Example: `  lookahead check grammar.jj --lookahead 2 --force-la-check`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCheck,
	}
	checkFlags.quiet = cmd.Flags().BoolP("quiet", "q", false, "print only errors")
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) (retErr error) {
	src, err := openGrammarSource(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer src.close()
	defer func() {
		src.annotate(retErr)
	}()

	res, err := src.analyze(analysisOptions()...)
	if res == nil {
		return err
	}

	if !*checkFlags.quiet {
		writeWarnings(cmd.OutOrStdout(), src.sourceName, res)
	}
	if err != nil {
		return err
	}

	if !*checkFlags.quiet {
		pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%v: %v phase-2 routines, %v phase-3 routines, %v warnings",
			src.sourceName, len(res.Phase2), len(res.Phase3), res.WarningCount())
	}

	return nil
}

func writeWarnings(w io.Writer, sourceName string, res *grammar.Result) {
	p := pterm.Warning.WithWriter(w)
	for _, d := range res.Diagnostics {
		if d.Severity != grammar.SeverityWarning {
			continue
		}
		p.Println(fmt.Sprintf("%v: %v", sourceName, d))
	}
}
