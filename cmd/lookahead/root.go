package main

import (
	"github.com/nihei9/lookahead/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lookahead",
	Short: "Check the lookahead of an LL(k) grammar",
	Long: `lookahead provides three features:
- Validates a grammar and reports ambiguous choice points.
- Computes the lookahead routines a parser generator has to emit and
  writes them to a description file.
- Prints a description file in readable format.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var analysisFlags = struct {
	lookahead        *int
	forceLACheck     *bool
	choiceAmbiguity  *int
	otherAmbiguity   *int
	userDefinedLexer *bool
}{}

func init() {
	defaults := grammar.DefaultOptions()
	flags := rootCmd.PersistentFlags()
	analysisFlags.lookahead = flags.Int("lookahead", defaults.LookaheadLimit, "number of tokens a choice point looks ahead by default")
	analysisFlags.forceLACheck = flags.Bool("force-la-check", false, "check ambiguities even when the lookahead is greater than 1 or given explicitly")
	analysisFlags.choiceAmbiguity = flags.Int("choice-ambiguity-check", defaults.ChoiceAmbiguityBound, "number of tokens considered when checking choices")
	analysisFlags.otherAmbiguity = flags.Int("other-ambiguity-check", defaults.OtherAmbiguityBound, "number of tokens considered when checking repetitions")
	analysisFlags.userDefinedLexer = flags.Bool("user-defined-lexer", false, "treat token labels as defined by an external lexer")
}

func analysisOptions() []grammar.Option {
	opts := []grammar.Option{
		grammar.LookaheadLimit(*analysisFlags.lookahead),
		grammar.ChoiceAmbiguityBound(*analysisFlags.choiceAmbiguity),
		grammar.OtherAmbiguityBound(*analysisFlags.otherAmbiguity),
	}
	if *analysisFlags.forceLACheck {
		opts = append(opts, grammar.ForceLookaheadCheck())
	}
	if *analysisFlags.userDefinedLexer {
		opts = append(opts, grammar.UserDefinedLexer())
	}
	return opts
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.WithWriter(rootCmd.ErrOrStderr()).Println(err)
		return err
	}
	return nil
}
