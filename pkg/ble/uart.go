package ble

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Nordic UART Service profile as exposed by the micro:bit firmware.
// RX is the characteristic the central writes command words into.
const (
	UARTServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	UARTRxCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // Write
	UARTTxCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // Notify
)

// findUARTCharacteristic walks the managed objects below the device node
// and returns the object path of the UART RX characteristic.
func (b *bluez) findUARTCharacteristic(devicePath dbus.ObjectPath) (dbus.ObjectPath, error) {
	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	err := b.conn.Object(busName, "/").Call(omIface+".GetManagedObjects", 0).Store(&objects)
	if err != nil {
		return "", fmt.Errorf("get managed objects: %w", err)
	}

	prefix := string(devicePath) + "/"
	for path, ifaces := range objects {
		if len(string(path)) <= len(prefix) || string(path)[:len(prefix)] != prefix {
			continue
		}
		props, ok := ifaces[gattIface]
		if !ok {
			continue
		}
		uuid, ok := props["UUID"].Value().(string)
		if !ok {
			continue
		}
		if uuidEqual(uuid, UARTRxCharUUID) {
			return path, nil
		}
	}

	return "", fmt.Errorf("UART RX characteristic %s not found under %s", UARTRxCharUUID, devicePath)
}

// writeCharacteristic writes payload to a GATT characteristic.
func (b *bluez) writeCharacteristic(charPath dbus.ObjectPath, payload []byte) error {
	obj := b.conn.Object(busName, charPath)
	options := map[string]dbus.Variant{}
	return obj.Call(gattIface+".WriteValue", 0, payload, options).Err
}
