package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ksyq12/siterender/internal/output"
	"github.com/ksyq12/siterender/internal/template"
)

var checkCmd = &cobra.Command{
	Use:   "check <template>...",
	Short: "Parse templates and list what they need",
	Long: `Parse templates without rendering them and report the placeholders and
flags a render context must supply.

Examples:
  siterender check nginx
  siterender check ./mysite.tmpl --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

type checkReport struct {
	Template     string   `json:"template"`
	Source       string   `json:"source"`
	Checksum     string   `json:"checksum"`
	Placeholders []string `json:"placeholders"`
	Flags        []string `json:"flags"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reports := make([]checkReport, 0, len(args))
	for _, ref := range args {
		tmpl, err := template.Resolve(ref, cfg.TemplateDir)
		if err != nil {
			return err
		}
		source := template.ResolvePath(ref, cfg.TemplateDir)
		if source == "" {
			source = "builtin"
		}
		reports = append(reports, checkReport{
			Template:     ref,
			Source:       source,
			Checksum:     fmt.Sprintf("%016x", tmpl.Checksum()),
			Placeholders: tmpl.Placeholders(),
			Flags:        tmpl.Flags(),
		})
	}

	if jsonOutput {
		return output.JSON(reports)
	}

	for _, r := range reports {
		output.Success("%s parsed (%s)", r.Template, r.Source)
		output.Print("  placeholders: %s", joinOrNone(r.Placeholders))
		output.Print("  flags:        %s", joinOrNone(r.Flags))
	}
	return nil
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
