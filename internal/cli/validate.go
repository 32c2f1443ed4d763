package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ksyq12/siterender/internal/errors"
	"github.com/ksyq12/siterender/internal/output"
	"github.com/ksyq12/siterender/internal/template"
	"github.com/ksyq12/siterender/internal/validator"
)

var validateTarget string

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a rendered configuration with the target server",
	Long: `Run a rendered site configuration through the server's own syntax check
without installing it. The target defaults to the configured driver.

Examples:
  siterender validate /tmp/acme.conf
  siterender validate /tmp/acme.conf --target apache --json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateTarget, "target", "t", "", "Server to validate against (nginx, apache)")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	target := validateTarget
	if target == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		target = cfg.Driver
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound(path)
		}
		return err
	}

	v, err := validator.ForTarget(target, deps.Executor)
	if err != nil {
		return err
	}

	res := validator.Run(v, &template.Document{Content: string(content)})
	if jsonOutput {
		if err := output.JSON(res); err != nil {
			return err
		}
	} else if res.OK {
		output.Success("%s accepted %s", res.Validator, path)
	}

	if !res.OK {
		return errors.ValidationFailed(res.Validator, res.Output, errors.Validation(path))
	}
	return nil
}
