package authnet

import (
	"sync"

	"github.com/joy-dx/authnet/config"
	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/relays"
	"github.com/joy-dx/lockablemap"
)

var (
	service     *NetSvc
	serviceOnce sync.Once
)

// ProvideNetSvc returns the process wide service, built on first use.
func ProvideNetSvc(cfg *config.NetSvcConfig) *NetSvc {
	serviceOnce.Do(func() {
		service = NewNetSvc(cfg)
	})
	return service
}

// NewNetSvc builds an independent service. Call Hydrate before use.
func NewNetSvc(cfg *config.NetSvcConfig) *NetSvc {
	svc := &NetSvc{
		cfg:            cfg,
		relay:          cfg.Relay(),
		listenersByURL: make(map[string][]chan dto.TransferNotification),
		transferState:  *lockablemap.NewLockableMap[string, dto.TransferNotification](),
		clients:        make(map[string]dto.NetClientInterface),
	}
	svc.relay.Debug(relays.RlyNetLog{Msg: "Net service started"})
	return svc
}
