package authnet

import (
	"fmt"
	"sync"

	"github.com/joy-dx/authnet/config"
	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/lockablemap"
	relayDTO "github.com/joy-dx/relay/dto"
)

// NetSvc dispatches requests to registered clients and tracks downloads.
type NetSvc struct {
	cfg            *config.NetSvcConfig
	relay          relayDTO.RelayInterface
	clientsMu      sync.RWMutex
	clients        map[string]dto.NetClientInterface
	transferState  lockablemap.LockableMap[string, dto.TransferNotification]
	muListeners    sync.Mutex
	listenersByURL map[string][]chan dto.TransferNotification
}

func (s *NetSvc) RegisterClient(ref string, client dto.NetClientInterface) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[ref] = client
}

func (s *NetSvc) client(ref string) (dto.NetClientInterface, error) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	netClient, isOK := s.clients[ref]
	if !isOK {
		return nil, fmt.Errorf("client not found: %s", ref)
	}
	return netClient, nil
}

// TransferListener returns a channel of updates for a particular URL
func (s *NetSvc) TransferListener(sourceURL string) (<-chan dto.TransferNotification, func()) {
	s.muListeners.Lock()
	defer s.muListeners.Unlock()

	ch := make(chan dto.TransferNotification, 10)
	s.listenersByURL[sourceURL] = append(s.listenersByURL[sourceURL], ch)

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			s.muListeners.Lock()
			defer s.muListeners.Unlock()

			chans := s.listenersByURL[sourceURL]
			out := chans[:0]
			found := false
			for _, c := range chans {
				if c != ch {
					out = append(out, c)
				} else {
					found = true
				}
			}
			if len(out) == 0 {
				delete(s.listenersByURL, sourceURL)
			} else {
				s.listenersByURL[sourceURL] = out
			}
			// TransferListenerClose may already have closed it
			if found {
				close(ch)
			}
		})
	}

	return ch, unsub
}

// TransferListenerClose closes all channels for a given URL manually
func (s *NetSvc) TransferListenerClose(sourceURL string) {
	s.muListeners.Lock()
	defer s.muListeners.Unlock()
	if chans, ok := s.listenersByURL[sourceURL]; ok {
		for _, c := range chans {
			close(c)
		}
		delete(s.listenersByURL, sourceURL)
	}
}
