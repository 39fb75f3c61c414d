package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

const (
	adapterInterface = "org.bluez.Adapter"

	// errConnectionAttemptFailed is the bus error name the adapter raises
	// when the remote device is unreachable.
	errConnectionAttemptFailed = "org.bluez.Error.ConnectionAttemptFailed"
)

// DBusClient talks to the adapter service over the system bus.
type DBusClient struct {
	conn   *dbus.Conn
	obj    dbus.BusObject
	logger *logrus.Entry
}

// NewDBusClient connects to the system bus and binds the adapter object.
func NewDBusClient(busName, objectPath string, logger *logrus.Logger) (*DBusClient, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}

	return &DBusClient{
		conn: conn,
		obj:  conn.Object(busName, dbus.ObjectPath(objectPath)),
		logger: logger.WithFields(logrus.Fields{
			"bus":     busName,
			"adapter": objectPath,
		}),
	}, nil
}

func (c *DBusClient) GetRemoteServiceHandles(ctx context.Context, address, uuid string) ([]uint32, error) {
	var handles []uint32
	call := c.obj.CallWithContext(ctx, adapterInterface+".GetRemoteServiceHandles", 0, address, uuid)
	if call.Err != nil {
		return nil, mapBusError("GetRemoteServiceHandles", call.Err)
	}
	if err := call.Store(&handles); err != nil {
		return nil, fmt.Errorf("unable to get args from GetRemoteServiceHandles reply: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"address": address,
		"uuid":    uuid,
		"count":   len(handles),
	}).Debug("Fetched remote service handles")

	return handles, nil
}

func (c *DBusClient) GetRemoteServiceRecord(ctx context.Context, address string, handle uint32) ([]byte, error) {
	var record []byte
	call := c.obj.CallWithContext(ctx, adapterInterface+".GetRemoteServiceRecord", 0, address, handle)
	if call.Err != nil {
		return nil, mapBusError("GetRemoteServiceRecord", call.Err)
	}
	if err := call.Store(&record); err != nil {
		return nil, fmt.Errorf("unable to get args from GetRemoteServiceRecord reply: %w", err)
	}
	return record, nil
}

func (c *DBusClient) FinishRemoteServiceTransaction(ctx context.Context, address string) error {
	call := c.obj.CallWithContext(ctx, adapterInterface+".FinishRemoteServiceTransaction", 0, address)
	if call.Err != nil {
		return mapBusError("FinishRemoteServiceTransaction", call.Err)
	}
	return nil
}

// Close releases the bus connection.
func (c *DBusClient) Close() error {
	return c.conn.Close()
}

// mapBusError lifts the distinguished host-down bus error into ErrHostDown
// and wraps everything else with the failing method name.
func mapBusError(method string, err error) error {
	var derr dbus.Error
	if errors.As(err, &derr) && derr.Name == errConnectionAttemptFailed {
		return fmt.Errorf("%s: %w", method, ErrHostDown)
	}
	return fmt.Errorf("%s failed: %w", method, err)
}
