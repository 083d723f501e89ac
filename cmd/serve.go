package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/keywordpulse/keywordpulse/internal/web"
)

var serveListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the single-page analysis web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		if serveListenAddr != "" {
			cfg.ListenAddr = serveListenAddr
		}

		srv := web.New(cfg)
		go func() {
			if err := srv.Start(); err != nil {
				log.Printf("server error: %v", err)
			}
		}()
		log.Printf("listening on %s", cfg.ListenAddr)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("shutting down")
		return srv.Shutdown()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveListenAddr, "listen", "l", "", "listen address (overrides config)")
}
