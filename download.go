package authnet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/relays"
	"github.com/joy-dx/authnet/utils"
)

// DownloadFile streams cfg.URL to disk through a stream capable client, so
// the download carries the same auth and 401 recovery as any other request.
func (s *NetSvc) DownloadFile(ctx context.Context, cfg *dto.DownloadFileConfig) error {
	if cfg == nil {
		return errors.New("nil DownloadFileConfig provided")
	}
	if cfg.OutputFileName == "" {
		// Try and get the filename from the URL and use the destination folder instead
		filename, err := utils.FilenameFromUrl(cfg.URL)
		if err != nil {
			return err
		}
		cfg.OutputFileName = filename
	}
	if cfg.ClientRef == "" {
		cfg.ClientRef = dto.NET_DEFAULT_CLIENT_REF
	}

	destination := filepath.Join(cfg.DestinationFolder, cfg.OutputFileName)

	s.relay.Info(relays.RlyNetDownload{
		Source:      cfg.URL,
		Destination: destination,
		Status:      dto.IN_PROGRESS,
		Percentage:  0,
		Msg:         fmt.Sprintf("starting download: %s", cfg.URL),
	})

	return s.download(ctx, cfg, destination)
}

func (s *NetSvc) download(ctx context.Context, cfg *dto.DownloadFileConfig, destination string) error {
	fail := func(status dto.TransferStatus, err error) {
		s.publishTransferUpdate(dto.TransferNotification{
			Source:      cfg.URL,
			Destination: destination,
			Status:      status,
			Message:     err.Error(),
		})
	}

	netClient, err := s.client(cfg.ClientRef)
	if err != nil {
		fail(dto.ERROR, err)
		return err
	}
	streamer, ok := netClient.(dto.StreamClientInterface)
	if !ok {
		err := fmt.Errorf("client %s cannot stream downloads", cfg.ClientRef)
		fail(dto.ERROR, err)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		fail(dto.ERROR, err)
		return fmt.Errorf("could not create destination folder %q: %w", destination, err)
	}

	resp, err := streamer.Open(ctx, cfg.URL)
	if err != nil {
		// If ctx was canceled, prefer STOPPED (so listeners close consistently)
		if ctx.Err() != nil {
			fail(dto.STOPPED, err)
			return err
		}
		fail(dto.ERROR, err)
		return fmt.Errorf("failed to start download: %w", err)
	}
	defer resp.Body.Close()

	out, err := os.Create(destination)
	if err != nil {
		fail(dto.ERROR, err)
		return fmt.Errorf("could not create output file %q: %w", destination, err)
	}
	defer out.Close()

	total := resp.ContentLength
	if total <= 0 {
		s.relay.Warn(relays.RlyNetDownload{Source: cfg.URL, Msg: "unknown file size"})
	}

	interval := s.cfg.DownloadCallbackInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	pr := newProgressReader(ctx, resp.Body, total, interval, func(read, total int64) {
		s.publishTransferUpdate(dto.TransferNotification{
			Source:      cfg.URL,
			Destination: destination,
			Status:      dto.IN_PROGRESS,
			Downloaded:  read,
			TotalSize:   total,
			Percentage:  percentOf(read, total),
		})
	})

	buf := make([]byte, 64*1024)
	written, err := io.CopyBuffer(out, pr, buf)
	if err != nil {
		if ctx.Err() != nil {
			s.publishTransferUpdate(dto.TransferNotification{
				Source:      cfg.URL,
				Destination: destination,
				Status:      dto.STOPPED,
				Downloaded:  written,
				TotalSize:   total,
			})
			return ctx.Err()
		}
		fail(dto.ERROR, err)
		return fmt.Errorf("file transfer failed for %s: %w", cfg.URL, err)
	}

	if cfg.Checksum != "" {
		if checkErr := utils.Sha256SumVerify(destination, cfg.Checksum); checkErr != nil {
			s.publishTransferUpdate(dto.TransferNotification{
				Source:      cfg.URL,
				Destination: destination,
				Status:      dto.ERROR,
				Percentage:  100,
				Message:     "failed to verify checksum",
			})
			return fmt.Errorf("checksum verification failed: %w", checkErr)
		}
	}

	s.publishTransferUpdate(dto.TransferNotification{
		Source:      cfg.URL,
		Destination: destination,
		Status:      dto.COMPLETE,
		Downloaded:  written,
		TotalSize:   total,
		Percentage:  100,
		Message:     "download complete",
	})
	return nil
}
