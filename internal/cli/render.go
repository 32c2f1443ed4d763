package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ksyq12/siterender/internal/config"
	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/output"
	"github.com/ksyq12/siterender/internal/template"
	"github.com/ksyq12/siterender/internal/validator"
	"github.com/ksyq12/siterender/internal/watch"
)

var (
	renderCtx      contextOptions
	renderOut      string
	renderOutDir   string
	renderValidate bool
	renderTarget   string
	renderWatch    bool
)

var renderCmd = &cobra.Command{
	Use:   "render <template>...",
	Short: "Render templates to stdout or files",
	Long: `Render one or more templates. A template is a builtin name (nginx, apache,
uwsgi, supervisor), an override in template_dir, or a path to a file.

The context comes from the config defaults or --site, then --values,
then --set and --flag.

Examples:
  siterender render nginx --site acme
  siterender render nginx --set prjname=acme --set project_dir=/srv/acme --flag webdav=false
  siterender render nginx uwsgi supervisor --site acme --out-dir ./out
  siterender render ./mysite.tmpl --values acme.yaml --validate --target nginx
  siterender render ./mysite.tmpl --site acme -o /tmp/acme.conf --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	addContextFlags(renderCmd, &renderCtx)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Write the rendered document to a file (single template only)")
	renderCmd.Flags().StringVar(&renderOutDir, "out-dir", "", "Write each document into a directory, named after its template")
	renderCmd.Flags().BoolVar(&renderValidate, "validate", false, "Check the output with the target server")
	renderCmd.Flags().StringVar(&renderTarget, "target", "", "Validator for file templates (nginx, apache)")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "Re-render when template files change")

	rootCmd.AddCommand(renderCmd)
}

func addContextFlags(cmd *cobra.Command, opts *contextOptions) {
	cmd.Flags().StringVar(&opts.site, "site", "", "Use the values of a configured site")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Set a placeholder value (key=value, repeatable)")
	cmd.Flags().StringArrayVar(&opts.flags, "flag", nil, "Set a conditional flag (key=true|false, repeatable)")
	cmd.Flags().StringVar(&opts.valuesFile, "values", "", "YAML file of values; booleans become flags")
}

// renderedItem is the JSON form of one rendered template
type renderedItem struct {
	Template   string            `json:"template"`
	Checksum   string            `json:"checksum"`
	Path       string            `json:"path,omitempty"`
	Content    string            `json:"content,omitempty"`
	Validation *validator.Result `json:"validation,omitempty"`
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderOut != "" && len(args) > 1 {
		return fmt.Errorf("--out takes a single template; use --out-dir for several")
	}
	if renderOut != "" && renderOutDir != "" {
		return fmt.Errorf("--out and --out-dir are mutually exclusive")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}

	items, err := renderTemplates(ctx, cfg, args)
	if err != nil {
		return err
	}
	if err := emit(items); err != nil {
		return err
	}

	if !renderWatch {
		return nil
	}
	return watchTemplates(ctx, cfg, args)
}

// renderTemplates resolves, renders and optionally validates refs. Output
// paths are assigned but nothing is written.
func renderTemplates(ctx context.Context, cfg *config.Config, refs []string) ([]renderedItem, error) {
	tctx, err := buildContext(cfg, renderCtx)
	if err != nil {
		return nil, err
	}

	jobs := make([]template.Job, 0, len(refs))
	for _, ref := range refs {
		tmpl, err := template.Resolve(ref, cfg.TemplateDir)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, template.Job{Template: tmpl, Context: tctx})
	}

	docs, err := template.RenderAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	items := make([]renderedItem, len(docs))
	for i, doc := range docs {
		items[i] = renderedItem{
			Template: refs[i],
			Checksum: doc.ChecksumHex(),
			Content:  doc.Content,
			Path:     outputPath(refs[i]),
		}

		if !renderValidate {
			continue
		}
		v, err := validatorFor(refs[i])
		if err != nil {
			return nil, err
		}
		res := validator.Run(v, doc)
		items[i].Validation = &res
		if !res.OK {
			return nil, errors.ValidationFailed(v.Name(), res.Output, fmt.Errorf("%s", refs[i]))
		}
	}
	return items, nil
}

// validatorFor picks --target, else the builtin's own validator.
func validatorFor(ref string) (validator.Validator, error) {
	target := renderTarget
	if target == "" && !template.IsFileRef(ref) {
		if info, ok := template.LookupBuiltin(ref); ok {
			target = info.Validator
		}
	}
	return validator.ForTarget(target, deps.Executor)
}

func outputPath(ref string) string {
	switch {
	case renderOut != "":
		return renderOut
	case renderOutDir != "":
		name := filepath.Base(ref)
		if info, ok := template.LookupBuiltin(ref); ok && !template.IsFileRef(ref) {
			name = info.File
		}
		name = strings.TrimSuffix(name, ".tmpl")
		if filepath.Ext(name) == "" {
			name += ".conf"
		}
		return filepath.Join(renderOutDir, name)
	}
	return ""
}

// emit writes documents to their paths or stdout and reports the result.
func emit(items []renderedItem) error {
	for i := range items {
		item := &items[i]
		if item.Path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(item.Path), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(item.Path, []byte(item.Content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", item.Path, err)
		}
	}

	if jsonOutput {
		return output.JSON(items)
	}

	for _, item := range items {
		switch {
		case item.Path != "":
			output.Success("Rendered %s to %s", item.Template, item.Path)
		default:
			output.Document(item.Content)
		}
		if item.Validation != nil && item.Path != "" {
			output.Success("%s accepted %s", item.Validation.Validator, item.Template)
		}
	}
	return nil
}

// watchTemplates re-renders refs whenever one of their files changes, until
// the context is cancelled. Render errors are reported and watching goes on.
func watchTemplates(ctx context.Context, cfg *config.Config, refs []string) error {
	var files []string
	for _, ref := range refs {
		if p := template.ResolvePath(ref, cfg.TemplateDir); p != "" {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("--watch needs at least one file template; builtins never change")
	}

	w, err := watch.New(files...)
	if err != nil {
		return err
	}
	output.Info("Watching %s (Ctrl+C to stop)", strings.Join(w.Files(), ", "))

	return w.Run(ctx, func(path string) {
		output.Info("%s changed, re-rendering", path)
		items, err := renderTemplates(ctx, cfg, refs)
		if err != nil {
			output.Rejected(err)
			return
		}
		if err := emit(items); err != nil {
			output.Rejected(err)
		}
	})
}
