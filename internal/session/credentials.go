package session

import (
	"context"
	"fmt"

	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
)

// Credentials is the durable store for one session's pairing credentials.
// Load returns the saved device, or a fresh unpaired one when nothing has
// been persisted yet. Erase wipes the stored credentials so the next Start
// forces a new QR pairing.
type Credentials interface {
	Load(ctx context.Context) (*store.Device, error)
	Erase(ctx context.Context, device *store.Device) error
}

// ContainerCredentials backs Credentials with the whatsmeow sqlstore
// container. The container persists every credential update on its own as
// the provider emits them; this type only covers load and erase.
type ContainerCredentials struct {
	Container *sqlstore.Container
}

func NewContainerCredentials(container *sqlstore.Container) *ContainerCredentials {
	return &ContainerCredentials{Container: container}
}

func (c *ContainerCredentials) Load(ctx context.Context) (*store.Device, error) {
	device, err := c.Container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("load device: %w", err)
	}
	return device, nil
}

func (c *ContainerCredentials) Erase(ctx context.Context, device *store.Device) error {
	if device == nil || device.ID == nil {
		// nothing persisted yet
		return nil
	}
	if err := c.Container.DeleteDevice(ctx, device); err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	return nil
}
