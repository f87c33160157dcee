// Package configcmd prints the effective configuration.
package configcmd

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"integrationhub/internal/infrastructure/config"
	"integrationhub/internal/interfaces/cli/cliutil"
	"integrationhub/internal/shared/utils"
)

var (
	env        string
	configPath string
	showSecret bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  `Load the configuration file and environment overrides, validate them and print the result as YAML. Secrets are masked.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&showSecret, "show-secrets", false, "Print secrets in clear text")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, _, err := cliutil.LoadConfig(configPath, env)
	if err != nil {
		return err
	}

	out, err := Render(cfg, !showSecret)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// Render encodes cfg as YAML, masking every field tagged secret:"true" when mask is set.
func Render(cfg *config.Config, mask bool) ([]byte, error) {
	masked := *cfg
	if mask {
		maskSecrets(reflect.ValueOf(&masked).Elem())
	}

	out, err := yaml.Marshal(&masked)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return out, nil
}

func maskSecrets(v reflect.Value) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		switch field.Kind() {
		case reflect.Struct:
			maskSecrets(field)
		case reflect.String:
			if t.Field(i).Tag.Get("secret") == "true" && field.CanSet() {
				field.SetString(utils.MaskSecret(field.String()))
			}
		}
	}
}
