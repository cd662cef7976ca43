package cmd

import (
	"github.com/IDM-desaive/formbricks/pkg/cmd/server"
	"github.com/spf13/cobra"
)

// serveSyncCmd represents the serve sync command
var serveSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Serve the widget sync API",
	Run:   server.RunServeSync(c),
}

func init() {
	serveCmd.AddCommand(serveSyncCmd)
}
