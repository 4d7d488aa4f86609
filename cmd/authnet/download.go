package main

import (
	"fmt"

	"github.com/joy-dx/authnet/dto"
	"github.com/spf13/cobra"
)

func (c *cli) newDownloadCommand() *cobra.Command {
	var dlCfg dto.DownloadFileConfig

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download a file with the stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dlCfg.URL = args[0]
			a := c.app
			defer a.settle()

			updates, unsub := a.svc.TransferListener(dlCfg.URL)
			done := make(chan struct{})
			go func() {
				defer close(done)
				for n := range updates {
					if n.Status == dto.IN_PROGRESS && n.Percentage > 0 {
						fmt.Fprintf(c.errOut, "%s %.0f%%\n", n.Destination, n.Percentage)
					}
				}
			}()

			err := a.svc.DownloadFile(cmd.Context(), &dlCfg)
			unsub()
			<-done
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, dlCfg.OutputFileName)
			return nil
		},
	}
	cmd.Flags().StringVar(&dlCfg.DestinationFolder, "dest", ".", "Destination folder")
	cmd.Flags().StringVar(&dlCfg.OutputFileName, "output", "", "File name, taken from the URL when empty")
	cmd.Flags().StringVar(&dlCfg.Checksum, "checksum", "", "Expected SHA-256 of the file")
	return cmd
}
