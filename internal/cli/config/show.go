package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective leetstats configuration after file and environment overrides",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "leetstats configuration:")
		fmt.Fprintln(out, "")

		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(out, "Config file: %s\n", file)
		} else {
			fmt.Fprintf(out, "Config file: none (defaults)\n")
		}
		fmt.Fprintln(out, "")

		fmt.Fprintf(out, "API:\n")
		fmt.Fprintf(out, "  Base URL: %s\n", viper.GetString("api.base_url"))
		fmt.Fprintf(out, "  Shape: %s\n", viper.GetString("api.shape"))
		fmt.Fprintf(out, "  Timeout: %s\n", viper.GetDuration("api.timeout"))
		fmt.Fprintln(out, "")

		fmt.Fprintf(out, "Server:\n")
		fmt.Fprintf(out, "  Host: %s\n", viper.GetString("server.host"))
		fmt.Fprintf(out, "  HTTP Port: %d\n", viper.GetInt("server.port"))
		fmt.Fprintf(out, "  Allowed Origins: %s\n", strings.Join(viper.GetStringSlice("server.allowed_origins"), ", "))
		if viper.GetBool("grpc.enabled") {
			fmt.Fprintf(out, "  gRPC: %s:%d\n", viper.GetString("grpc.host"), viper.GetInt("grpc.port"))
		} else {
			fmt.Fprintf(out, "  gRPC: disabled\n")
		}
		fmt.Fprintln(out, "")

		fmt.Fprintf(out, "Logging:\n")
		fmt.Fprintf(out, "  Level: %s\n", viper.GetString("logging.level"))
		fmt.Fprintf(out, "  Format: %s\n", viper.GetString("logging.format"))
		fmt.Fprintf(out, "  Output: %s\n", viper.GetString("logging.output"))
		fmt.Fprintf(out, "  Tracing: %t\n", viper.GetBool("telemetry.tracing"))
	},
}

func init() {
	ConfigCmd.AddCommand(showCmd)
}
