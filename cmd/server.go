package cmd

import (
	"github.com/ShenShiNing/new-tube/config"
	server2 "github.com/ShenShiNing/new-tube/server"
	"github.com/spf13/cobra"
)

func server(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "start http server",
		Run: func(cmd *cobra.Command, args []string) {
			server2.RunHttp(config)
		},
	}
}
