package authnet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joy-dx/authnet/config"
	"github.com/joy-dx/authnet/dto"
)

func newDownloadSvc(t *testing.T, auth dto.AuthService) *NetSvc {
	t.Helper()

	cfg := config.DefaultNetSvcConfig()
	cfg.WithRelay(&fakeRelay{}).
		WithAuthService(auth).
		WithDownloadCallbackInterval(10 * time.Millisecond)
	s := NewNetSvc(&cfg)
	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	return s
}

func TestDownloadFile_HTTP_Golden(t *testing.T) {
	t.Parallel()

	content := []byte("hello world\n")
	sum := sha256.Sum256(content)
	checksum := hex.EncodeToString(sum[:])

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.pdf":
			w.WriteHeader(http.StatusNotFound)
		case "/slow.bin":
			w.WriteHeader(http.StatusOK)
			fl, _ := w.(http.Flusher)
			for i := 0; i < 256; i++ {
				if _, err := w.Write([]byte(strings.Repeat("x", 8*1024))); err != nil {
					return
				}
				if fl != nil {
					fl.Flush()
				}
				time.Sleep(5 * time.Millisecond)
			}
		default:
			_, _ = w.Write(content)
		}
	}))
	t.Cleanup(ts.Close)

	tests := []struct {
		name        string
		cfg         dto.DownloadFileConfig
		cancelAfter time.Duration
		wantStatus  dto.TransferStatus
		wantFile    string
		wantErr     bool
	}{
		{
			name:       "filename derived from url",
			cfg:        dto.DownloadFileConfig{URL: ts.URL + "/notes/chapter1.pdf"},
			wantStatus: dto.COMPLETE,
			wantFile:   "chapter1.pdf",
		},
		{
			name:       "checksum ok",
			cfg:        dto.DownloadFileConfig{URL: ts.URL + "/file2.txt", OutputFileName: "out.txt", Checksum: checksum},
			wantStatus: dto.COMPLETE,
			wantFile:   "out.txt",
		},
		{
			name:       "bad checksum",
			cfg:        dto.DownloadFileConfig{URL: ts.URL + "/file3.txt", OutputFileName: "out.txt", Checksum: "deadbeef"},
			wantStatus: dto.ERROR,
			wantFile:   "out.txt",
			wantErr:    true,
		},
		{
			name:       "http error",
			cfg:        dto.DownloadFileConfig{URL: ts.URL + "/missing.pdf"},
			wantStatus: dto.ERROR,
			wantErr:    true,
		},
		{
			name:        "cancelled",
			cfg:         dto.DownloadFileConfig{URL: ts.URL + "/slow.bin"},
			cancelAfter: 50 * time.Millisecond,
			wantStatus:  dto.STOPPED,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newDownloadSvc(t, nil)
			cfg := tt.cfg
			cfg.DestinationFolder = t.TempDir()

			ctx := context.Background()
			if tt.cancelAfter > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, tt.cancelAfter)
				defer cancel()
			}

			err := s.DownloadFile(ctx, &cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}

			destination := filepath.Join(cfg.DestinationFolder, cfg.OutputFileName)
			if got := s.State().TransfersStatus[destination].Status; got != tt.wantStatus {
				t.Fatalf("status = %s, want %s", got, tt.wantStatus)
			}
			if tt.wantFile != "" {
				if cfg.OutputFileName != tt.wantFile {
					t.Fatalf("output file = %q, want %q", cfg.OutputFileName, tt.wantFile)
				}
				if _, statErr := os.Stat(destination); statErr != nil {
					t.Fatalf("file missing: %v", statErr)
				}
			}
		})
	}
}

func TestDownloadFile_RefreshesExpiredToken(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer new1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	t.Cleanup(ts.Close)

	auth := &fakeAuth{}
	auth.current.Store("stale")
	s := newDownloadSvc(t, auth)

	url := ts.URL + "/notes/1.pdf"
	updates, unsub := s.TransferListener(url)
	defer unsub()

	cfg := dto.DownloadFileConfig{URL: url, DestinationFolder: t.TempDir()}
	if err := s.DownloadFile(context.Background(), &cfg); err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(cfg.DestinationFolder, "1.pdf"))
	if err != nil || string(b) != "%PDF-1.7" {
		t.Fatalf("file = %q (%v)", b, err)
	}

	deadline := time.After(time.Second)
	for {
		select {
		case n := <-updates:
			if n.Status == dto.COMPLETE {
				return
			}
		case <-deadline:
			t.Fatalf("no COMPLETE notification")
		}
	}
}

func TestDownloadFile_NonStreamingClient(t *testing.T) {
	t.Parallel()

	s, _ := newTestSvc(t)
	s.RegisterClient("plain", &fakeNetClient{ref: "plain"})

	cfg := dto.DownloadFileConfig{URL: "https://example.com/a.pdf", ClientRef: "plain", DestinationFolder: t.TempDir()}
	if err := s.DownloadFile(context.Background(), &cfg); err == nil {
		t.Fatalf("expected error for client without streaming support")
	}
}
