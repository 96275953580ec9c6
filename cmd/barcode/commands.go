package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kursadbilgin/barcode-dispatch/internal/config"
	"github.com/kursadbilgin/barcode-dispatch/internal/notify"
	"github.com/kursadbilgin/barcode-dispatch/internal/observability"
	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a barcode for one patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			number, _ := cmd.Flags().GetString("number")
			download, _ := cmd.Flags().GetBool("download")

			a, cleanup, err := consoleApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			result, err := a.submissions.SubmitSingle(ctx, name, number)
			if err != nil {
				return err
			}
			if !result.Succeeded {
				return fmt.Errorf("barcode generation failed: %s", result.ErrorMessage)
			}

			if download {
				if _, err := a.downloads.DownloadOne(ctx, result.Record); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().String("name", "", "Patient name (at least 2 characters)")
	cmd.Flags().String("number", "", "Patient number (1 to 8 digits)")
	cmd.Flags().Bool("download", false, "Download the barcode image after generating it")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("number")

	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate barcodes for \"name,number\" lines read from a file or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			download, _ := cmd.Flags().GetBool("download")

			text, err := readBatchInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			a, cleanup, err := consoleApp(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			report, err := a.submissions.SubmitBatch(ctx, text)
			if err != nil {
				return err
			}

			if download && a.session.DownloadAllAvailable() {
				if _, err := a.downloads.DownloadAll(ctx); err != nil {
					return err
				}
			}

			if report.Failed > 0 {
				return fmt.Errorf("batch %s: %s", report.BatchID, report.Summary())
			}
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "Read batch lines from this file instead of stdin")
	cmd.Flags().Bool("download", false, "Download every created barcode after the batch")

	return cmd
}

// consoleApp wires the services for a one-shot CLI run: human-readable logs
// on stderr and notifications on the command's stdout.
func consoleApp(cmd *cobra.Command) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := observability.NewConsoleLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a, err := newApp(cfg, logger, notify.NewConsoleNotifier(cmd.OutOrStdout()))
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}

	return a, func() { _ = logger.Sync() }, nil
}

func readBatchInput(stdin io.Reader, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read batch file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read batch input: %w", err)
	}
	return string(data), nil
}
