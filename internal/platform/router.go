package platform

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/png" // backend captures are PNG
	"sync"

	"github.com/mj1618/device-cli/internal/logging"
	"github.com/mj1618/device-cli/internal/model"
	"github.com/mj1618/device-cli/internal/screenshot"
)

// Router is the single entry point for unified commands. It owns the only
// long-lived piece of state in the core: the active device, selected
// explicitly via SetDevice or implicitly when exactly one usable device is
// connected. MCP tool handlers may run concurrently, so the field is
// mutex-guarded.
type Router struct {
	mu      sync.Mutex
	clients map[model.Platform]Client
	order   []model.Platform
	active  *model.Device
}

// NewRouter builds a Router over the given backend clients. Registration
// order is preserved for deterministic enumeration fan-out.
func NewRouter(clients ...Client) *Router {
	r := &Router{clients: make(map[model.Platform]Client)}
	for _, c := range clients {
		p := c.Platform()
		if _, dup := r.clients[p]; dup {
			continue
		}
		r.clients[p] = c
		r.order = append(r.order, p)
	}
	return r
}

// ActiveDevice returns a copy of the currently active device, or nil.
func (r *Router) ActiveDevice() *model.Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return nil
	}
	d := *r.active
	return &d
}

// ListDevices enumerates devices across every registered backend. A backend
// whose toolchain is unavailable contributes nothing; any other backend
// error aborts the enumeration.
func (r *Router) ListDevices(ctx context.Context) ([]model.Device, error) {
	log := logging.Component("router")
	var all []model.Device
	for _, p := range r.order {
		devices, err := r.clients[p].Devices(ctx)
		if err != nil {
			var unavailable *UnavailableError
			if errors.As(err, &unavailable) {
				log.Debug().Str("platform", string(p)).Err(err).Msg("backend unavailable, skipping")
				continue
			}
			return nil, err
		}
		all = append(all, devices...)
	}
	return all, nil
}

// ResolveClient returns the client every unified command should run
// against. An explicit platform hint wins unconditionally — the hinted
// backend does not need a connected device; errors surface later at the
// backend call. Without a hint, the active device's platform is used; with
// no active device, the Router enumerates everything and implicitly
// activates the single usable device if there is exactly one.
func (r *Router) ResolveClient(ctx context.Context, hint model.Platform) (Client, error) {
	if hint != "" {
		c, ok := r.clients[hint]
		if !ok {
			return nil, &UnavailableError{Platform: hint, Err: errors.New("no client registered")}
		}
		return c, nil
	}

	r.mu.Lock()
	active := r.active
	r.mu.Unlock()
	if active != nil {
		return r.clients[active.Platform], nil
	}

	devices, err := r.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	var usable []model.Device
	for _, d := range devices {
		if d.Usable() {
			usable = append(usable, d)
		}
	}
	if len(usable) != 1 {
		return nil, &NoActiveDeviceError{}
	}

	r.activate(usable[0])
	return r.clients[usable[0].Platform], nil
}

// SetDevice selects the active device by id, matching across all backends.
// When the id matches nothing and a platform hint is given, the first
// usable device of that platform is selected instead (so "use android"
// works without knowing a serial).
func (r *Router) SetDevice(ctx context.Context, id string, hint model.Platform) (*model.Device, error) {
	devices, err := r.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	for _, d := range devices {
		if d.ID == id {
			r.activate(d)
			return &d, nil
		}
	}

	if hint != "" {
		for _, d := range devices {
			if d.Platform == hint && d.Usable() {
				r.activate(d)
				return &d, nil
			}
		}
	}

	return nil, &DeviceNotFoundError{ID: id}
}

func (r *Router) activate(d model.Device) {
	r.mu.Lock()
	r.active = &d
	r.mu.Unlock()
	r.clients[d.Platform].UseDevice(d.ID)
	log := logging.Component("router")
	log.Info().
		Str("device", d.ID).Str("platform", string(d.Platform)).Msg("active device set")
}

// Screenshot fetches a raw capture from the resolved client and either runs
// it through the compressor or wraps the raw bytes as an uncompressed PNG
// result.
func (r *Router) Screenshot(ctx context.Context, hint model.Platform, compress bool, opts screenshot.Options) (*screenshot.Result, error) {
	client, err := r.ResolveClient(ctx, hint)
	if err != nil {
		return nil, err
	}
	raw, err := client.ScreenshotRaw(ctx)
	if err != nil {
		return nil, err
	}
	if compress {
		return screenshot.Compress(raw, opts), nil
	}
	w, h := pngDimensions(raw)
	return screenshot.Uncompressed(raw, w, h, client.ScaleFactor(ctx)), nil
}

// pngDimensions reads the capture's dimensions without a full decode.
// Unreadable bytes report 0x0; the payload is still returned to the caller.
func pngDimensions(raw []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
