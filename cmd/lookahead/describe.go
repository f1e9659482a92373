package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	gspec "github.com/nihei9/lookahead/spec/grammar"
	"github.com/spf13/cobra"
)

var describeFlags = struct {
	output *string
	name   *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Write the lookahead routines of a grammar to a description file",
		Example: `  lookahead describe grammar.jj -o grammar.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runDescribe,
	}
	describeFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	describeFlags.name = cmd.Flags().StringP("name", "n", "", "grammar name (default the file name without its extension)")
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("an unexpected error occurred: %v", v)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%v:\n%v", err, string(debug.Stack()))
		retErr = err
	}()

	src, err := openGrammarSource(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer src.close()
	defer func() {
		src.annotate(retErr)
	}()

	res, err := src.analyze(analysisOptions()...)
	if err != nil {
		return err
	}

	name := *describeFlags.name
	if name == "" {
		name = src.name()
	}
	desc, err := res.Describe(name)
	if err != nil {
		return err
	}

	err = writeDescriptionFile(desc, *describeFlags.output, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("Cannot write the description: %w", err)
	}

	return nil
}

// writeDescriptionFile writes a description to a file located at a specified
// path, or to stdout when the path is empty.
func writeDescriptionFile(desc *gspec.Description, path string, stdout io.Writer) error {
	w := stdout
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	b, err := json.Marshal(desc)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n", string(b))

	return nil
}

func readDescription(path string) (*gspec.Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the description file %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	desc := &gspec.Description{}
	err = json.Unmarshal(d, desc)
	if err != nil {
		return nil, err
	}

	return desc, nil
}
