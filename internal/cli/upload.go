package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"swap-ledger/internal/uploader"
)

var (
	uploadDir      string
	uploadEndpoint string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a directory of screenshots to a running extraction server",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := cfg.Upload.Endpoint
		if uploadEndpoint != "" {
			endpoint = uploadEndpoint
		}

		up := uploader.New(uploader.Options{
			Endpoint:    endpoint,
			Concurrency: cfg.Upload.Concurrency,
			Timeout:     cfg.Upload.Timeout,
			Logger:      logger,
		})

		summary, err := up.UploadDir(cmd.Context(), uploadDir)
		if err != nil {
			return err
		}

		for _, r := range summary.Results {
			if r.Err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", r.Path, r.Err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s: %s\n", r.Status, r.Path, r.Message)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d files, %d uploaded, %d transactions stored, %d failed\n",
			summary.Files, summary.Uploaded, summary.Stored, summary.Failed)

		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Files)
		}
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadDir, "dir", "", "Directory of screenshot files to upload")
	uploadCmd.Flags().StringVar(&uploadEndpoint, "endpoint", "", "Extract endpoint (defaults to config)")
	uploadCmd.MarkFlagRequired("dir")
}
