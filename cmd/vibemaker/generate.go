package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vibemaker/internal/logging"
	"vibemaker/internal/vibe"
)

type generateOptions struct {
	category     string
	subcategory  string
	tone         string
	tags         []string
	recipient    string
	relationship string
	language     string
	jsonOutput   bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate four caption suggestions",
		Example: `  vibemaker generate -c birthday -s friend -t humorous
  vibemaker generate -c caption -s travel -t chill --tag beach --tag sunset
  vibemaker generate -c birthday -s partner -t savage --recipient Sam --relationship boyfriend`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}

			logger := logging.Nop()
			if root.debug {
				logger = logging.NewComponentLogger("cli")
			}

			engine, err := buildEngine(cfg, logger, nil)
			if err != nil {
				return err
			}

			resp, genErr := engine.GenerateVibes(cmd.Context(), vibe.Request{
				Category:      opts.category,
				Subcategory:   opts.subcategory,
				Tone:          opts.tone,
				TextTags:      opts.tags,
				RecipientName: opts.recipient,
				Relationship:  opts.relationship,
				Language:      opts.language,
			})
			if genErr != nil {
				return formatGenerationError(genErr)
			}

			if opts.jsonOutput {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(resp)
			}

			printSuggestions(resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "Post category (birthday, caption, celebration, holiday)")
	cmd.Flags().StringVarP(&opts.subcategory, "subcategory", "s", "", "Post subcategory")
	cmd.Flags().StringVarP(&opts.tone, "tone", "t", "", "Caption tone (humorous, savage, romantic, sentimental, inspirational, chill)")
	cmd.Flags().StringArrayVar(&opts.tags, "tag", nil, "Theme tag, repeatable (max 8)")
	cmd.Flags().StringVar(&opts.recipient, "recipient", "", "Recipient name for personalized captions")
	cmd.Flags().StringVar(&opts.relationship, "relationship", "", "Relationship to the recipient")
	cmd.Flags().StringVar(&opts.language, "language", "", "Output language (default English)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the full response as JSON")

	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("subcategory")
	_ = cmd.MarkFlagRequired("tone")

	return cmd
}

func printSuggestions(resp *vibe.Response) {
	fmt.Printf("%s %s\n\n", bold("Suggestions for"),
		cyan(fmt.Sprintf("%s/%s (%s)", resp.Metadata.Category, resp.Metadata.Subcategory, resp.Metadata.Tone)))

	for i, line := range resp.TextSuggestions {
		fmt.Printf("  %s %s\n", green(fmt.Sprintf("%d.", i+1)), line)
	}

	fmt.Printf("\n%s\n", gray(fmt.Sprintf("model=%s candidates=%d iterations=%d revisions=%d strategies=%s",
		resp.Audit.Model, resp.Audit.TotalGenerated, resp.Audit.Iterations,
		resp.Audit.SuccessfulRevisions, strings.Join(resp.Audit.StrategiesUsed, ","))))
}

func formatGenerationError(genErr *vibe.Error) error {
	if genErr.Code != vibe.CodeValidationError || len(genErr.Details) == 0 {
		return fmt.Errorf("%s: %s", genErr.Code, genErr.Message)
	}

	var b strings.Builder
	b.WriteString("invalid request:")
	for _, detail := range genErr.Details {
		fmt.Fprintf(&b, "\n  %s %s: %s", yellow(detail.Code), detail.Field, detail.Message)
	}
	return fmt.Errorf("%s", b.String())
}
