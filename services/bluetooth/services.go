package bluetooth

import (
	"fmt"
	"strconv"
	"sync"

	"obs-logger/models"
	"obs-logger/utils"
)

const (
	DistanceServiceUUID        = "1FE7FAF9-CE63-4236-0001-000000000000"
	DistanceCharacteristicUUID = "1FE7FAF9-CE63-4236-0001-000000000001"

	ButtonServiceUUID        = "1FE7FAF9-CE63-4236-0002-000000000000"
	ButtonCharacteristicUUID = "1FE7FAF9-CE63-4236-0002-000000000001"

	// Bluetooth SIG assigned numbers.
	DeviceInfoServiceUUID   = "180A"
	FirmwareRevisionUUID    = "2A26"
	ManufacturerNameUUID    = "2A29"
	SerialNumberUUID        = "2A25"
	defaultManufacturerName = "openbikesensor.org"
)

// DistanceService notifies "<millis>;<left>;<right>" for every interval.
// A side without a reading is left empty.
type DistanceService struct {
	clock  utils.Clock
	server Server
	svc    *GATTService
}

func NewDistanceService(clock utils.Clock) *DistanceService {
	return &DistanceService{clock: clock}
}

func (s *DistanceService) Setup(server Server) error {
	s.svc = &GATTService{
		UUID: DistanceServiceUUID,
		Characteristics: []Characteristic{
			{UUID: DistanceCharacteristicUUID, Properties: PropRead | PropNotify},
		},
	}
	s.server = server
	return server.AddService(s.svc)
}

func (s *DistanceService) ShouldAdvertise() bool { return true }
func (s *DistanceService) Service() *GATTService { return s.svc }
func (s *DistanceService) OnButtonPressed()      {}

func (s *DistanceService) OnSensorValues(left, right uint16) {
	if s.server == nil {
		return
	}
	value := strconv.FormatUint(uint64(utils.UptimeMillis(s.clock)), 10) +
		";" + sideValue(left) + ";" + sideValue(right)
	s.server.Notify(DistanceServiceUUID, DistanceCharacteristicUUID, value)
}

func sideValue(v uint16) string {
	if v >= models.MaxSensorValue {
		return ""
	}
	return JoinList([]uint16{v}, ",")
}

// ButtonService notifies the uptime of every press together with the
// left distances seen since the previous press, so a companion app can
// pick the overtaking distance.
type ButtonService struct {
	clock  utils.Clock
	server Server
	svc    *GATTService

	mu   sync.Mutex
	left []uint16
}

func NewButtonService(clock utils.Clock) *ButtonService {
	return &ButtonService{clock: clock}
}

func (s *ButtonService) Setup(server Server) error {
	s.svc = &GATTService{
		UUID: ButtonServiceUUID,
		Characteristics: []Characteristic{
			{UUID: ButtonCharacteristicUUID, Properties: PropRead | PropNotify},
		},
	}
	s.server = server
	return server.AddService(s.svc)
}

func (s *ButtonService) ShouldAdvertise() bool { return false }
func (s *ButtonService) Service() *GATTService { return s.svc }

// maxRememberedValues bounds the distances kept between two presses.
const maxRememberedValues = 10

func (s *ButtonService) OnSensorValues(left, _ uint16) {
	if left >= models.MaxSensorValue {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.left = append(s.left, left)
	if len(s.left) > maxRememberedValues {
		s.left = s.left[len(s.left)-maxRememberedValues:]
	}
}

func (s *ButtonService) OnButtonPressed() {
	s.mu.Lock()
	values := JoinList(s.left, ",")
	s.left = s.left[:0]
	s.mu.Unlock()

	if s.server == nil {
		return
	}
	value := strconv.FormatUint(uint64(utils.UptimeMillis(s.clock)), 10) + ";" + values
	s.server.Notify(ButtonServiceUUID, ButtonCharacteristicUUID, value)
}

// DeviceInfoService publishes static device information once at Setup.
type DeviceInfoService struct {
	firmware string
	deviceID string
	svc      *GATTService
}

func NewDeviceInfoService(cfg utils.DeviceConfig) *DeviceInfoService {
	return &DeviceInfoService{firmware: cfg.FirmwareVersion, deviceID: cfg.ID}
}

func (s *DeviceInfoService) Setup(server Server) error {
	s.svc = &GATTService{
		UUID: DeviceInfoServiceUUID,
		Characteristics: []Characteristic{
			{UUID: FirmwareRevisionUUID, Properties: PropRead},
			{UUID: ManufacturerNameUUID, Properties: PropRead},
			{UUID: SerialNumberUUID, Properties: PropRead},
		},
	}
	if err := server.AddService(s.svc); err != nil {
		return fmt.Errorf("device info: %w", err)
	}
	server.SetValue(DeviceInfoServiceUUID, FirmwareRevisionUUID, s.firmware)
	server.SetValue(DeviceInfoServiceUUID, ManufacturerNameUUID, defaultManufacturerName)
	server.SetValue(DeviceInfoServiceUUID, SerialNumberUUID, s.deviceID)
	return nil
}

func (s *DeviceInfoService) ShouldAdvertise() bool      { return false }
func (s *DeviceInfoService) Service() *GATTService      { return s.svc }
func (s *DeviceInfoService) OnSensorValues(_, _ uint16) {}
func (s *DeviceInfoService) OnButtonPressed()           {}

var (
	_ Service = (*DistanceService)(nil)
	_ Service = (*ButtonService)(nil)
	_ Service = (*DeviceInfoService)(nil)
)
