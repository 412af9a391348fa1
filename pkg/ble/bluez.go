package ble

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	busName     = "org.bluez"
	adapterRoot = "/org/bluez/"

	adapterIface = "org.bluez.Adapter1"
	deviceIface  = "org.bluez.Device1"
	gattIface    = "org.bluez.GattCharacteristic1"
	propsIface   = "org.freedesktop.DBus.Properties"
	propsSignal  = "org.freedesktop.DBus.Properties.PropertiesChanged"
	omIface      = "org.freedesktop.DBus.ObjectManager"
)

// adapterPath returns the object path for an adapter like "hci0".
func adapterPath(adapter string) dbus.ObjectPath {
	return dbus.ObjectPath(adapterRoot + adapter)
}

// deviceObjectPath converts a MAC address like "AA:BB:CC:DD:EE:FF" to
// "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF".
func deviceObjectPath(adapter, addr string) dbus.ObjectPath {
	escaped := strings.ReplaceAll(strings.ToUpper(addr), ":", "_")
	return dbus.ObjectPath(string(adapterPath(adapter)) + "/dev_" + escaped)
}

// macFromPath extracts a MAC address from a BlueZ device object path.
func macFromPath(adapter string, path dbus.ObjectPath) string {
	s := string(path)
	prefix := string(adapterPath(adapter)) + "/dev_"
	if !strings.HasPrefix(s, prefix) {
		return ""
	}
	mac := strings.ReplaceAll(s[len(prefix):], "_", ":")
	// GATT children carry service/char suffixes below the device node.
	if i := strings.IndexByte(mac, '/'); i != -1 {
		mac = mac[:i]
	}
	return mac
}

// uuidEqual compares two UUIDs case-insensitively.
func uuidEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}

// bluez wraps a system D-Bus connection for BlueZ operations.
type bluez struct {
	conn *dbus.Conn
}

func newBluez() (*bluez, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}
	// Quick check that BlueZ is on the bus.
	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		conn.Close()
		return nil, fmt.Errorf("list bus names: %w", err)
	}
	found := false
	for _, n := range names {
		if n == busName {
			found = true
			break
		}
	}
	if !found {
		conn.Close()
		return nil, fmt.Errorf("org.bluez not found on system bus, is bluetooth.service running?")
	}
	return &bluez{conn: conn}, nil
}

func (b *bluez) close() {
	b.conn.Close()
}

// --- property helpers ---

func (b *bluez) getProp(path dbus.ObjectPath, iface, prop string) (dbus.Variant, error) {
	obj := b.conn.Object(busName, path)
	var v dbus.Variant
	err := obj.Call(propsIface+".Get", 0, iface, prop).Store(&v)
	return v, err
}

func (b *bluez) setProp(path dbus.ObjectPath, iface, prop string, val interface{}) error {
	obj := b.conn.Object(busName, path)
	return obj.Call(propsIface+".Set", 0, iface, prop, dbus.MakeVariant(val)).Err
}

func (b *bluez) getBool(path dbus.ObjectPath, iface, prop string) (bool, error) {
	v, err := b.getProp(path, iface, prop)
	if err != nil {
		return false, err
	}
	val, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("property %s is not bool", prop)
	}
	return val, nil
}

func (b *bluez) getString(path dbus.ObjectPath, iface, prop string) (string, error) {
	v, err := b.getProp(path, iface, prop)
	if err != nil {
		return "", err
	}
	val, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("property %s is not string", prop)
	}
	return val, nil
}

// --- adapter ---

func (b *bluez) adapterPowered(adapter string) (bool, error) {
	return b.getBool(adapterPath(adapter), adapterIface, "Powered")
}

func (b *bluez) setAdapterPowered(adapter string, on bool) error {
	return b.setProp(adapterPath(adapter), adapterIface, "Powered", on)
}

// --- device ---

func (b *bluez) deviceConnected(adapter, addr string) (bool, error) {
	return b.getBool(deviceObjectPath(adapter, addr), deviceIface, "Connected")
}

func (b *bluez) deviceName(adapter, addr string) (string, error) {
	return b.getString(deviceObjectPath(adapter, addr), deviceIface, "Name")
}

func (b *bluez) servicesResolved(adapter, addr string) (bool, error) {
	return b.getBool(deviceObjectPath(adapter, addr), deviceIface, "ServicesResolved")
}

func (b *bluez) connectDevice(adapter, addr string) error {
	obj := b.conn.Object(busName, deviceObjectPath(adapter, addr))
	return obj.Call(deviceIface+".Connect", 0).Err
}

func (b *bluez) disconnectDevice(adapter, addr string) error {
	obj := b.conn.Object(busName, deviceObjectPath(adapter, addr))
	return obj.Call(deviceIface+".Disconnect", 0).Err
}

// --- signal subscription ---

func (b *bluez) subscribePropertyChanges() chan *dbus.Signal {
	b.conn.BusObject().Call(
		"org.freedesktop.DBus.AddMatch", 0,
		"type='signal',interface='"+propsIface+"',member='PropertiesChanged',path_namespace='/org/bluez'",
	)
	ch := make(chan *dbus.Signal, 16)
	b.conn.Signal(ch)
	return ch
}
