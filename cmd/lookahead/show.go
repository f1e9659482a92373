package main

import (
	"io"
	"math"
	"strconv"

	gspec "github.com/nihei9/lookahead/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a description file in readable format",
		Example: `  lookahead show grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	desc, err := readDescription(args[0])
	if err != nil {
		return err
	}

	ok, err := desc.VerifyFingerprint()
	if err != nil {
		return err
	}
	if !ok {
		pterm.Warning.WithWriter(cmd.ErrOrStderr()).Printfln("%v: the fingerprint does not match the content", args[0])
	}

	return writeDescription(cmd.OutOrStdout(), desc)
}

func writeDescription(w io.Writer, desc *gspec.Description) error {
	section := pterm.DefaultSection.WithWriter(w)

	section.Println(desc.Name)
	err := renderTable(w, [][]string{
		{"Option", "Value"},
		{"lookahead", strconv.Itoa(desc.Options.LookaheadLimit)},
		{"choice-ambiguity-check", strconv.Itoa(desc.Options.ChoiceAmbiguityBound)},
		{"other-ambiguity-check", strconv.Itoa(desc.Options.OtherAmbiguityBound)},
		{"force-la-check", strconv.FormatBool(desc.Options.ForceLookaheadCheck)},
		{"user-defined-lexer", strconv.FormatBool(desc.Options.UserDefinedLexer)},
	})
	if err != nil {
		return err
	}

	section.WithLevel(2).Println("Terminals")
	terms := [][]string{
		{"Ordinal", "Label", "Image"},
	}
	for _, t := range desc.Terminals {
		terms = append(terms, []string{strconv.Itoa(t.Ordinal), t.Label, t.Image})
	}
	err = renderTable(w, terms)
	if err != nil {
		return err
	}

	for _, routines := range []struct {
		title string
		list  []*gspec.Routine
	}{
		{"Phase-2 routines", desc.Phase2},
		{"Phase-3 routines", desc.Phase3},
	} {
		section.WithLevel(2).Println(routines.title)
		if len(routines.list) == 0 {
			pterm.Fprintln(w, "none")
			continue
		}
		data := [][]string{
			{"Name", "Production", "Position", "Amount"},
		}
		for _, r := range routines.list {
			data = append(data, []string{r.Name, r.Production, strconv.Itoa(r.Row) + ":" + strconv.Itoa(r.Col), amountText(r.Amount)})
		}
		err = renderTable(w, data)
		if err != nil {
			return err
		}
	}

	section.WithLevel(2).Println("Diagnostics")
	if len(desc.Diagnostics) == 0 {
		pterm.Fprintln(w, "none")
		return nil
	}
	for _, d := range desc.Diagnostics {
		p := pterm.Warning.WithWriter(w)
		if d.Severity == "error" {
			p = pterm.Error.WithWriter(w)
		}
		p.Printfln("%v:%v: %v: %v", d.Row, d.Col, d.Code, d.Message)
	}

	return nil
}

func renderTable(w io.Writer, data [][]string) error {
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

func amountText(amount int) string {
	if amount == math.MaxInt32 {
		return "unbounded"
	}
	return strconv.Itoa(amount)
}
