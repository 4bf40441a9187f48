package bluetooth

import (
	"fmt"
	"sync"

	"obs-logger/utils"
)

// LogServer is a Server without a radio. It keeps the last value of every
// characteristic and logs notifications, which is enough to run the
// services on a development host.
type LogServer struct {
	mu       sync.Mutex
	services map[string]*GATTService
	values   map[string]string
	notified uint64
	log      *utils.Logger
}

func NewLogServer() *LogServer {
	return &LogServer{
		services: make(map[string]*GATTService),
		values:   make(map[string]string),
		log:      utils.L().Named("ble"),
	}
}

func (s *LogServer) AddService(svc *GATTService) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[svc.UUID]; ok {
		return fmt.Errorf("service %s already registered", svc.UUID)
	}
	s.services[svc.UUID] = svc
	return nil
}

func (s *LogServer) SetValue(service, characteristic, value string) {
	s.mu.Lock()
	s.values[service+"/"+characteristic] = value
	s.mu.Unlock()
}

func (s *LogServer) Notify(service, characteristic, value string) {
	s.mu.Lock()
	s.values[service+"/"+characteristic] = value
	s.notified++
	s.mu.Unlock()
	s.log.Debug("notify %s %s", characteristic, value)
}

// Value returns the last value set or notified on a characteristic.
func (s *LogServer) Value(service, characteristic string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[service+"/"+characteristic]
	return v, ok
}

// Notifications is the number of Notify calls so far.
func (s *LogServer) Notifications() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notified
}
