package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vibemaker/internal/vibe"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List supported categories, subcategories and tones",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := vibe.Categories()

			fmt.Println(bold("Categories"))
			for _, name := range vibe.CategoryNames() {
				fmt.Printf("  %s %s\n", cyan(name), gray(strings.Join(all[name], ", ")))
			}

			tones := make([]string, 0, len(vibe.Tones()))
			for _, tone := range vibe.Tones() {
				tones = append(tones, string(tone))
			}
			fmt.Printf("\n%s\n  %s\n", bold("Tones"), strings.Join(tones, ", "))
			return nil
		},
	}
}
