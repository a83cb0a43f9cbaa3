// Package emilycmder
package emilycmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/flowwed/emily/cmd/emily/chat"
	servecmder "github.com/flowwed/emily/cmd/emily/serve"
	versioncmder "github.com/flowwed/emily/cmd/version"
)

const emilyLongDesc string = `Emily is the conversational wedding assistant behind FloWWed Studio.

Run services using:
  emily serve          Run the chat API server
  emily chat           Talk to a running server from the terminal`

const emilyShortDesc string = "Emily - FloWWed Studio wedding assistant"

func NewEmilyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emily",
		Short: emilyShortDesc,
		Long:  emilyLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml (default: working directory)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
