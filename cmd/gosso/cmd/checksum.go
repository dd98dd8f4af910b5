package cmd

import (
	"context"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/goSSO/broker"
	"github.com/MrEthical07/goSSO/credential"
)

var (
	checksumRegistry string
	checksumSecret   string
	checksumBroker   string
	checksumToken    string
	checksumCommand  string
)

var tokenShape = regexp.MustCompile(`^\w+$`)

var checksumCmd = &cobra.Command{
	Use:   "checksum",
	Short: "Compute broker credential checksums",
	Long: `Computes the checksum a broker must send for a given token, either from
a secret passed on the command line or from the broker registry. Useful
when integrating a new broker or debugging rejected handshakes.

For the bearer command the full wire credential is printed as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var command credential.Command
		switch checksumCommand {
		case "attach":
			command = credential.CommandAttach
		case "bearer":
			command = credential.CommandBearer
		default:
			return fmt.Errorf("unknown command %q (expected attach or bearer)", checksumCommand)
		}

		if !tokenShape.MatchString(checksumBroker) {
			return fmt.Errorf("broker id must match \\w+")
		}
		if !tokenShape.MatchString(checksumToken) {
			return fmt.Errorf("token must match \\w+")
		}

		secret := checksumSecret
		if secret == "" {
			if checksumRegistry == "" {
				return fmt.Errorf("either --secret or --registry is required")
			}
			registry, err := broker.NewRegistry(checksumRegistry)
			if err != nil {
				return fmt.Errorf("failed to open broker registry: %w", err)
			}
			info, found, err := registry.Lookup(context.Background(), checksumBroker)
			if err != nil {
				return fmt.Errorf("broker lookup failed: %w", err)
			}
			if !found {
				return fmt.Errorf("broker %q not found in registry", checksumBroker)
			}
			secret = info.Secret
		}

		sum := credential.Checksum(secret, command, checksumToken)
		fmt.Printf("checksum: %s\n", sum)
		if command == credential.CommandBearer {
			fmt.Printf("credential: %s\n", credential.Render(checksumBroker, checksumToken, sum))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checksumCmd)
	checksumCmd.Flags().StringVar(&checksumRegistry, "registry", "", "Path to the broker registry TOML file")
	checksumCmd.Flags().StringVar(&checksumSecret, "secret", "", "Broker secret, bypasses the registry lookup")
	checksumCmd.Flags().StringVar(&checksumBroker, "broker", "", "Broker id")
	checksumCmd.Flags().StringVar(&checksumToken, "token", "", "Broker token")
	checksumCmd.Flags().StringVar(&checksumCommand, "command", "bearer", "Handshake command: attach or bearer")
	_ = checksumCmd.MarkFlagRequired("broker")
	_ = checksumCmd.MarkFlagRequired("token")
}
