package broker

import (
	"context"
	"sync"

	goSSO "github.com/MrEthical07/goSSO"
)

// Static is an in-memory broker registry with a fixed table. It is safe
// for concurrent use; Put and Remove may be called while lookups run.
type Static struct {
	mu      sync.RWMutex
	brokers map[string]goSSO.BrokerInfo
}

// NewStatic returns an empty static registry.
func NewStatic() *Static {
	return &Static{brokers: make(map[string]goSSO.BrokerInfo)}
}

// Put registers or replaces a broker.
func (s *Static) Put(brokerID string, info goSSO.BrokerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brokers[brokerID] = cloneInfo(info)
}

// Remove deletes a broker. Unknown ids are a no-op.
func (s *Static) Remove(brokerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.brokers, brokerID)
}

// Lookup implements goSSO.BrokerProvider.
func (s *Static) Lookup(_ context.Context, brokerID string) (goSSO.BrokerInfo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.brokers[brokerID]
	if !ok {
		return goSSO.BrokerInfo{}, false, nil
	}
	return cloneInfo(info), true, nil
}

// cloneInfo copies the record so callers and the registry never share the
// Domains slice.
func cloneInfo(info goSSO.BrokerInfo) goSSO.BrokerInfo {
	out := info
	out.Domains = append([]string(nil), info.Domains...)
	return out
}
