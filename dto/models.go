package dto

import (
	"net/http"
	"time"
)

type NetClientType string

const NET_DEFAULT_CLIENT_REF = "net.client.default"

// NetClient describes a registered client.
type NetClient struct {
	Name        string        `json:"name" yaml:"name"`
	Ref         string        `json:"ref" yaml:"ref"`
	ClientType  NetClientType `json:"client_type" yaml:"client_type"`
	Description string        `json:"description" yaml:"description"`
}

type TransferStatus string

const (
	IN_PROGRESS TransferStatus = "in_progress"
	COMPLETE    TransferStatus = "complete"
	ERROR       TransferStatus = "error"
	STOPPED     TransferStatus = "stopped"
)

// RecoveryOutcome labels how a 401 recovery attempt ended.
type RecoveryOutcome string

const (
	RecoveryReplayed       RecoveryOutcome = "replayed"
	RecoveryNoRefreshToken RecoveryOutcome = "no_refresh_token"
	RecoveryRefreshFailed  RecoveryOutcome = "refresh_failed"
	RecoveryEmptyToken     RecoveryOutcome = "empty_token"
)

type TransferNotification struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
	// Status MetaType of message
	Status TransferStatus `json:"status" yaml:"status"`
	// Percentage completion status as a percentage
	Percentage float64 `json:"percentage" yaml:"percentage"`
	// TotalSize length content in bytes. The value -1 indicates that the length is unknown
	TotalSize int64 `json:"total_size,omitempty" yaml:"total_size,omitempty"`
	// Downloaded downloaded body length in bytes
	Downloaded int64 `json:"downloaded,omitempty" yaml:"downloaded,omitempty"`
}

type NetState struct {
	BaseURL                  string        `json:"net_base_url,omitempty" yaml:"net_base_url,omitempty"`
	LoginPath                string        `json:"net_login_path,omitempty" yaml:"net_login_path,omitempty"`
	WithCredentials          bool          `json:"net_with_credentials" yaml:"net_with_credentials"`
	ExtraHeaders             ExtraHeaders  `json:"net_extra_headers,omitempty" yaml:"net_extra_headers,omitempty"`
	RequestTimeout           time.Duration `json:"net_request_timeout,omitempty" yaml:"net_request_timeout,omitempty"`
	UserAgent                string        `json:"net_user_agent,omitempty" yaml:"net_user_agent,omitempty"`
	BlacklistDomains         []string      `json:"net_blacklist_domains,omitempty" yaml:"net_blacklist_domains,omitempty"`
	WhitelistDomains         []string      `json:"net_whitelist_domains,omitempty" yaml:"net_whitelist_domains,omitempty"`
	DownloadCallbackInterval time.Duration `json:"net_download_callback_interval,omitempty" yaml:"net_download_callback_interval,omitempty"`
	Clients                  []string      `json:"net_clients,omitempty" yaml:"net_clients,omitempty"`
	// TransfersStatus last known state per download destination
	TransfersStatus map[string]TransferNotification `json:"net_transfers_status,omitempty" yaml:"net_transfers_status,omitempty"`
}

// Download File
type DownloadFileConfig struct {
	// ClientRef stream capable client to download with, defaults to NET_DEFAULT_CLIENT_REF
	ClientRef string
	Checksum  string
	URL       string
	// DestinationFolder Used if path not set appending
	DestinationFolder string
	OutputFileName    string
}

type Response struct {
	StatusCode int
	Headers    http.Header
	// As well as casting to ResponseObject if set, return as byes
	Body []byte
}
