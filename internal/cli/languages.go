package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-overlay/internal/ocr"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the installed OCR languages",
	Long: `List the OCR languages the recognizer can use, with their English names.

The entry a new page selects is marked with "*". When the profile languages
are enabled, the language recognition would run in is marked with "p".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := NewPage(cfg)
		if err != nil {
			return err
		}
		defer p.Close()

		available := p.Session().Available()
		if len(available) == 0 {
			return fmt.Errorf("no OCR languages installed")
		}

		selected := p.View().Controls.Selected
		profile, _ := ocr.FromProfile(cfg.OCR.ProfileLanguages, available)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, code := range available {
			mark := " "
			switch {
			case code == selected:
				mark = "*"
			case cfg.OCR.UseProfileLanguages && code == profile:
				mark = "p"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", mark, code, ocr.DisplayName(code))
		}
		return w.Flush()
	},
}

func init() {
	RootCmd.AddCommand(languagesCmd)
}
