package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-elemgen/pkg/loader"
	"github.com/goliatone/go-elemgen/pkg/validation"
)

type validateOptions struct {
	json bool
}

type documentReport struct {
	Path   string             `json:"path"`
	Valid  bool               `json:"valid"`
	Error  string             `json:"error,omitempty"`
	Issues []validation.Issue `json:"issues,omitempty"`
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <file|glob>...",
		Short: "Check schema documents against the schema contract",
		Long: `Validate lists every problem in each matched document. Globs follow
doublestar syntax ("schemas/**/*.yaml"). The command fails when any document
is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPatterns(args)
			if err != nil {
				return err
			}

			docs := loader.New()
			reports := make([]documentReport, 0, len(paths))
			invalid := 0
			for _, path := range paths {
				report := documentReport{Path: path, Valid: true}
				doc, err := docs.Load(cmd.Context(), loader.SourceFromFile(path))
				if err == nil {
					result := validation.ValidateDocument(doc.Value())
					report.Valid = result.Valid
					report.Issues = result.Issues
					if result.Valid {
						if _, decodeErr := doc.Decode(); decodeErr != nil {
							report.Valid = false
							report.Error = decodeErr.Error()
						}
					}
				} else {
					report.Valid = false
					report.Error = err.Error()
				}
				if !report.Valid {
					invalid++
				}
				root.logger.Debug("validated document", "path", path, "valid", report.Valid, "issues", len(report.Issues))
				reports = append(reports, report)
			}

			out := cmd.OutOrStdout()
			if opts.json {
				payload, err := json.MarshalIndent(reports, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(payload))
			} else {
				for _, report := range reports {
					printReport(cmd, report)
				}
			}

			if invalid > 0 {
				return fmt.Errorf("validate: %d of %d documents invalid", invalid, len(reports))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Print reports as JSON")
	return cmd
}

func printReport(cmd *cobra.Command, report documentReport) {
	out := cmd.OutOrStdout()
	if report.Valid {
		fmt.Fprintf(out, "%s: ok\n", report.Path)
		return
	}
	if report.Error != "" {
		fmt.Fprintf(out, "%s: %s\n", report.Path, report.Error)
	}
	for _, issue := range report.Issues {
		pointer := issue.Pointer
		if pointer == "" {
			pointer = "/"
		}
		fmt.Fprintf(out, "%s: %s: %s\n", report.Path, pointer, issue.Message)
	}
}

// expandPatterns resolves doublestar globs to schema files. Arguments without
// glob metacharacters are taken verbatim.
func expandPatterns(args []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			if _, dup := seen[arg]; !dup {
				seen[arg] = struct{}{}
				out = append(out, arg)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("validate: glob %q: %w", arg, err)
		}
		found := 0
		for _, match := range matches {
			if !loader.IsSchemaFile(match) {
				continue
			}
			found++
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			out = append(out, match)
		}
		if found == 0 {
			return nil, fmt.Errorf("validate: no documents match %q", arg)
		}
	}
	slices.Sort(out)
	return out, nil
}
