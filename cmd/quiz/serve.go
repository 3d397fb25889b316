package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/photo-quiz/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the quiz SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with the game index.
Progress, settings and history are shared by every connection.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses ssh.host_key from the config (~/.quiz/host_key),
    generated on first start

Examples:
  quiz serve                           # Listen on :23234
  quiz serve --ssh :2222               # Listen on port 2222
  quiz serve --host-key ./my_host_key  # Use specific host key
  quiz serve --db ./quiz.db            # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) {
	w := mustOpenWire(cmd)
	defer w.Close()

	cfg := tui.SSHServerConfigFrom(w.Config)
	if cmd.Flags().Changed("ssh") {
		cfg.Address = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		cfg.HostKeyPath = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	server, err := tui.NewSSHServer(cfg, w)
	if err != nil {
		w.Close()
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	prefetch(ctx, w)

	fmt.Printf("Starting quiz SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", port(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		w.Close()
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// port extracts the port from a host:port address.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
