// Command jpg2png converts the JPEG images next to the executable into PNG
// files and removes the originals.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stemsi/qbank-manager/internal/logger"
	"github.com/stemsi/qbank-manager/internal/normalizer"
)

var rootCmd = &cobra.Command{
	Use:   "jpg2png",
	Short: "Convert JPEG images to PNG and delete the originals",
	Long: `jpg2png converts every .jpg/.jpeg file directly inside a directory into a
.png file with the same base name, then removes the original. Subdirectories
are not visited. A file that cannot be converted is reported and kept.

Without --dir it works on the directory that contains the executable.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().String("dir", "", "directory to convert (default: the executable's directory)")
	rootCmd.Flags().String("log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.Flags().String("log-format", "auto", "log format: auto, pretty or json")
}

func run(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	log := logger.Setup(level, format)

	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		var err error
		dir, err = executableDir()
		if err != nil {
			return err
		}
	}

	report, err := normalizer.New(log).Run(cmd.Context(), dir)
	if err != nil {
		return err
	}

	if report.Empty() {
		log.Info().Str("dir", dir).Msg("No JPEG files found")
		return nil
	}
	log.Info().Str("dir", dir).Msg(report.Summary())
	return nil
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "jpg2png:", err)
		os.Exit(1)
	}
}
