package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-cloud/catalog"
	"github.com/danielhkuo/quickly-cloud/client"
	"github.com/danielhkuo/quickly-cloud/i18n"
	"github.com/danielhkuo/quickly-cloud/kiosk"
	"github.com/danielhkuo/quickly-cloud/models"
	"github.com/danielhkuo/quickly-cloud/selection"
)

var (
	serverURL string
	language  string
	deviceID  string
	items     int
	statePath string
	width     int
	timeout   time.Duration
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Terminal kiosk for Quickly Cloud",
	Long:  "Pick three items, submit them to the Quickly Cloud server and see the word cloud.",
	RunE:  runKiosk,
}

func init() {
	rootCmd.Flags().StringVarP(&serverURL, "server", "s", envOr("QUICKLY_SERVER", "http://localhost:3318"), "API server URL")
	rootCmd.Flags().StringVarP(&language, "lang", "l", i18n.DefaultLanguage, "Initial language")
	rootCmd.Flags().StringVar(&deviceID, "device-id", os.Getenv("KIOSK_DEVICE_ID"), "Device UUID (default: random per run)")
	rootCmd.Flags().IntVar(&items, "items", catalog.DefaultSize, "Number of catalog items")
	rootCmd.Flags().StringVar(&statePath, "state", "", "File keeping the in-progress selection across restarts")
	rootCmd.Flags().IntVar(&width, "width", 80, "Terminal width for the word cloud")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout for API calls")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func runKiosk(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if deviceID == "" {
		deviceID = uuid.NewString()
	} else if _, err := uuid.Parse(deviceID); err != nil {
		return fmt.Errorf("invalid --device-id: %w", err)
	}

	cat, err := catalog.New(items)
	if err != nil {
		return err
	}
	translator, err := i18n.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if timeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", timeout)
	}

	api := client.New(serverURL,
		client.WithDeviceUUID(deviceID),
		client.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if _, err := api.RegisterDevice(ctx, models.PlatformKiosk); err != nil {
		slog.Warn("device registration failed", "device_id", deviceID, "error", err)
	}

	ctrlOpts := []selection.Option{selection.WithLanguage(language)}
	if statePath != "" {
		ctrlOpts = append(ctrlOpts, selection.WithPersister(kiosk.FilePersister{Path: statePath}))
	}

	k := kiosk.New(api, cat, translator, cmd.OutOrStdout(), []kiosk.Option{kiosk.WithWidth(width)}, ctrlOpts...)
	err = k.Run(ctx, cmd.InOrStdin())
	if err == context.Canceled {
		return nil
	}
	return err
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
