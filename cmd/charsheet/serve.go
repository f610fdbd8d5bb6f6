package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MindHardt/charsheet"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP composer service",
	Long: `Serves the composition API. Configuration comes from the environment
(or a .env file): CHARSHEET_ADDR, CHARSHEET_SESSION_SECRET, CHARSHEET_COOKIE_SECURE,
CHARSHEET_REDIS_URL, CHARSHEET_LOG_FILE and CHARSHEET_ENV.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", charsheet.EnvOr("CHARSHEET_ADDR", ":3000"), "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	assets, _ := cmd.Flags().GetString("assets")

	app := charsheet.New(charsheet.Config{
		Addr:          addr,
		AssetLocation: assets,
		SessionSecret: os.Getenv("CHARSHEET_SESSION_SECRET"),
		CookieSecure:  charsheet.EnvOr("CHARSHEET_COOKIE_SECURE", "false") == "true",
		RedisURL:      os.Getenv("CHARSHEET_REDIS_URL"),
		LogFile:       os.Getenv("CHARSHEET_LOG_FILE"),
		Production:    charsheet.EnvOr("CHARSHEET_ENV", "development") == "production",
	})
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Start(ctx)
}
