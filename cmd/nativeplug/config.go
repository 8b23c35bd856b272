package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/nativeplug/internal/config"
	"github.com/smykla-skalski/nativeplug/internal/schema"
)

var (
	globalFlag    bool
	forceFlag     bool
	schemaOutput  string
	schemaCompact bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nativeplug configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	Long: `Write a configuration file with default values.

By default, creates a project configuration file (.nativeplug.toml).
Use --global to create the global configuration file
($XDG_CONFIG_HOME/nativeplug/config.toml).`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration as TOML, after merging defaults,
the global and project files, NATIVEPLUG_* environment variables and flags.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON Schema for configuration",
	Long: `Generate a JSON Schema (Draft 2020-12) for the nativeplug configuration format.

Examples:
  nativeplug config schema                           # Print to stdout
  nativeplug config schema --output schema.json      # Write to file
  nativeplug config schema --compact                 # Compact output`,
	Args: cobra.NoArgs,
	RunE: runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configSchemaCmd)

	configInitCmd.Flags().BoolVarP(&globalFlag, "global", "g", false, "Initialize global configuration")
	configInitCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite existing configuration file")

	configSchemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "Write schema to file instead of stdout")
	configSchemaCmd.Flags().BoolVar(&schemaCompact, "compact", false, "Output compact JSON without indentation")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	writer, err := internalconfig.NewWriter()
	if err != nil {
		return err
	}

	path := writer.ProjectConfigPath()
	exists := writer.IsProjectConfigExists()

	if globalFlag {
		path = writer.GlobalConfigPath()
		exists = writer.IsGlobalConfigExists()
	}

	if exists && !forceFlag {
		return errors.Wrapf(internalconfig.ErrConfigExists, "%s (use --force to overwrite)", path)
	}

	if err := writer.WriteFile(path, internalconfig.DefaultConfig()); err != nil {
		return err
	}

	printf(cmd, "Configuration written to %s\n", path)

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := internalconfig.Marshal(cfg)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)

	return err
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	data, err := schema.GenerateJSON(!schemaCompact)
	if err != nil {
		return errors.Wrap(err, "generating schema")
	}

	if schemaOutput != "" {
		const filePerms = 0o644

		if writeErr := os.WriteFile(schemaOutput, data, filePerms); writeErr != nil {
			return errors.Wrap(writeErr, "writing schema file")
		}

		printf(cmd, "Schema written to %s\n", schemaOutput)

		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)

	return err
}
