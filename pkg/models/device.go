package models

import (
	"strings"
	"time"
)

// Status is the operational state of a device.
type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusError       Status = "error"
	StatusMaintenance Status = "maintenance"
)

// Statuses lists every device status, in display order.
func Statuses() []Status {
	return []Status{StatusActive, StatusInactive, StatusError, StatusMaintenance}
}

// DeviceTypes lists the registerable device types, in display order. Sensor
// kinds first, then controllable kinds, then the catch-alls.
func DeviceTypes() []string {
	return []string{
		"Temperature", "Humidity", "Pressure", "Motion", "Light", "Sound",
		"GPS", "Camera", "Moisture", "Air Quality",
		"LED", "Engine", "Door Lock", "Pump", "Fan", "Valve", "Thermostat",
		"Switch", "Dimmer", "Motor",
		"Actuator", "Gateway", "Other",
	}
}

// controllableTypes is the subset of device types that accept imperative
// commands and therefore get a control surface.
var controllableTypes = map[string]struct{}{
	"LED":        {},
	"Engine":     {},
	"Door Lock":  {},
	"Pump":       {},
	"Fan":        {},
	"Valve":      {},
	"Thermostat": {},
	"Switch":     {},
	"Dimmer":     {},
	"Motor":      {},
	"Actuator":   {},
}

// IsControllable reports whether a device of the given type accepts
// imperative commands.
func IsControllable(deviceType string) bool {
	_, ok := controllableTypes[deviceType]
	return ok
}

// Device represents a registered IoT endpoint tracked by the platform.
type Device struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Type            string             `json:"type"`
	Location        string             `json:"location"`
	Description     string             `json:"description,omitempty"`
	Status          Status             `json:"status"`
	LastSeen        time.Time          `json:"last_seen,omitempty"`
	FirmwareVersion string             `json:"firmware_version"`
	HardwareVersion string             `json:"hardware_version"`
	APIKey          string             `json:"api_key,omitempty"`
	CreatedAt       time.Time          `json:"created_at,omitempty"`
	TelemetryCount  int                `json:"telemetry_count"`
	Connection      *ConnectionDetails `json:"connection_details,omitempty"`
}

// IsControllable reports whether this device gets a control surface.
func (d *Device) IsControllable() bool {
	return IsControllable(d.Type)
}

// ConnectionDetails is the credential bundle issued once at device creation
// that lets the physical device connect to the platform.
type ConnectionDetails struct {
	DeviceToken       string `json:"deviceToken"`
	GatewayIP         string `json:"gatewayIP"`
	MQTTEndpoint      string `json:"mqttEndpoint"`
	HTTPSEndpoint     string `json:"httpsEndpoint"`
	MQTTTopic         string `json:"mqttTopic"`
	ReconnectInterval int    `json:"reconnectInterval"`
	HeartbeatInterval int    `json:"heartbeatInterval"`
}

// DeviceDraft is the transient form input for creating or editing a device.
type DeviceDraft struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	FirmwareVersion string `json:"firmwareVersion"`
	HardwareVersion string `json:"hardwareVersion"`
}

// DefaultDraft returns the draft used when registering a new device.
func DefaultDraft() DeviceDraft {
	return DeviceDraft{
		Type:            "Temperature",
		FirmwareVersion: "1.0.0",
		HardwareVersion: "1.0",
	}
}

// DraftFromDevice seeds an edit draft from an existing device.
func DraftFromDevice(d *Device) DeviceDraft {
	return DeviceDraft{
		Name:            d.Name,
		Type:            d.Type,
		Location:        d.Location,
		Description:     d.Description,
		FirmwareVersion: d.FirmwareVersion,
		HardwareVersion: d.HardwareVersion,
	}
}

// Valid reports whether the draft satisfies the save precondition: name and
// location must be non-empty after trimming.
func (f DeviceDraft) Valid() bool {
	return strings.TrimSpace(f.Name) != "" && strings.TrimSpace(f.Location) != ""
}

// WireDevice is a device as the platform API serializes it.
type WireDevice struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Type            string             `json:"type"`
	Location        string             `json:"location"`
	Status          string             `json:"status"`
	LastSeen        string             `json:"lastSeen,omitempty"`
	FirmwareVersion string             `json:"firmwareVersion,omitempty"`
	HardwareVersion string             `json:"hardwareVersion,omitempty"`
	APIKey          string             `json:"apiKey,omitempty"`
	Description     string             `json:"description,omitempty"`
	CreatedAt       string             `json:"createdAt,omitempty"`
	TelemetryCount  *int               `json:"telemetryCount,omitempty"`
	Connection      *ConnectionDetails `json:"connectionDetails,omitempty"`
}
