package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-elemgen/pkg/loader"
	"github.com/goliatone/go-elemgen/pkg/schema"
)

// picker asks the user to choose among options.
type picker interface {
	Pick(message string, options []string) ([]string, error)
}

type surveyPicker struct{}

func (surveyPicker) Pick(message string, options []string) ([]string, error) {
	var selected []string
	prompt := &survey.MultiSelect{
		Message:  message,
		Options:  options,
		PageSize: 15,
	}
	if err := survey.AskOne(prompt, &selected, survey.WithValidator(survey.MinItems(1))); err != nil {
		return nil, err
	}
	return selected, nil
}

func newPickCmd(root *rootOptions, choose picker) *cobra.Command {
	opts := &outputSettings{}

	cmd := &cobra.Command{
		Use:   "pick [dir]",
		Short: "Choose documents interactively and render them together",
		Long: `Pick lists the schema documents below dir (default "."), lets you select
several, and renders every selected node as one sequence wrapped in the
container tag.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.container = envDefault(cmd, "container", envContainerTag)
			opts.keyPrefix = envDefault(cmd, "key-prefix", envKeyPrefix)
			opts.format = envDefault(cmd, "format", envFormat)

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			docs := loader.New(loader.WithFS(os.DirFS(dir)))
			paths, err := docs.Glob()
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("pick: no schema documents in %s", dir)
			}

			selected, err := choose.Pick("Documents to render", paths)
			if err != nil {
				return fmt.Errorf("pick: %w", err)
			}
			if len(selected) == 0 {
				return errors.New("pick: nothing selected")
			}

			var values []schema.Value
			for _, path := range selected {
				doc, err := docs.Load(cmd.Context(), loader.SourceFromFS(path))
				if err != nil {
					return err
				}
				decoded, err := doc.Decode()
				if err != nil {
					return err
				}
				switch v := decoded.(type) {
				case []schema.Value:
					values = append(values, v...)
				case schema.Value:
					values = append(values, v)
				}
			}
			root.logger.Debug("picked documents", "count", len(selected), "nodes", len(values))

			converter, err := buildConverter(*opts, root)
			if err != nil {
				return err
			}
			tree, err := converter.Convert(values, false)
			if err != nil {
				return err
			}
			payload, err := encodeTree(cmd.Context(), tree, *opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), *opts, payload)
		},
	}

	addOutputFlags(cmd, opts)
	return cmd
}
