package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ksyq12/siterender/internal/output"
	"github.com/ksyq12/siterender/internal/template"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available templates",
	Long: `List the builtin templates and any overrides or additions found in
template_dir.

Examples:
  siterender templates
  siterender templates --json`,
	Args: cobra.NoArgs,
	RunE: runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

type templateListItem struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Validator   string `json:"validator,omitempty"`
	Description string `json:"description,omitempty"`
}

func runTemplates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	items := make([]templateListItem, 0)
	seen := make(map[string]bool)
	for _, info := range template.Builtins() {
		source := "builtin"
		if p := template.ResolvePath(info.Name, cfg.TemplateDir); p != "" {
			source = p
		}
		items = append(items, templateListItem{
			Name:        info.Name,
			Source:      source,
			Validator:   info.Validator,
			Description: info.Description,
		})
		seen[info.Name] = true
	}

	// Extra templates in template_dir
	if cfg.TemplateDir != "" {
		entries, err := os.ReadDir(cfg.TemplateDir)
		if err != nil && !os.IsNotExist(err) {
			output.Warn("Could not read %s: %v", cfg.TemplateDir, err)
		}
		for _, e := range entries {
			name := strings.TrimSuffix(e.Name(), ".tmpl")
			if e.IsDir() || name == e.Name() || seen[name] {
				continue
			}
			items = append(items, templateListItem{
				Name:   name,
				Source: filepath.Join(cfg.TemplateDir, e.Name()),
			})
		}
	}

	if jsonOutput {
		return output.JSON(items)
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		v := item.Validator
		if v == "" {
			v = "-"
		}
		rows = append(rows, []string{item.Name, v, item.Source, item.Description})
	}
	output.Table([]string{"NAME", "VALIDATOR", "SOURCE", "DESCRIPTION"}, rows)
	return nil
}
