package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gosso",
	Short: "goSSO is a broker-mediated single sign-on server",
	Long: `goSSO accepts session hand-offs from trusted brokers and serves the
broker-mediated single sign-on handshake: brokers attach their tokens to
server sessions, and clients later resume those sessions with signed
bearer credentials.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
