package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/bytengine/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a configuration file",
	Long: `Initialize a bytengine configuration file with sane defaults and a
freshly generated ticket secret.

By default, the configuration file is created at
$XDG_CONFIG_HOME/bytengine/config.yaml. Use --config to specify a custom path.

Examples:
  # Initialize with default location
  bytengine init

  # Initialize with custom path
  bytengine init --config /etc/bytengine/config.yaml

  # Force overwrite existing config
  bytengine init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	cfg := config.GetDefaultConfig()

	secret, err := generateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate ticket secret: %w", err)
	}
	cfg.Tickets.Secret = secret

	if err := config.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Run a script with: bytengine run script.bql")
	fmt.Println("\nSecurity note:")
	fmt.Println("  A random ticket secret has been generated for development use.")
	fmt.Println("  For production, override it with an environment variable:")
	fmt.Println("    export BYTENGINE_TICKETS_SECRET=$(openssl rand -hex 32)")

	return nil
}

// generateSecret returns 32 random bytes hex-encoded.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
