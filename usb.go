package sds

import (
	"context"
	"errors"
	"time"

	"github.com/google/gousb"
)

const (
	VENDOR_ID  = 0x1d9d // TL2012 cradle
	PRODUCT_ID = 0x1011

	EP_OUT = 0x02
	EP_IN  = 0x81
)

// USBPort is the first TL2012 cradle found on the USB buses.
type USBPort struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
	in   *gousb.InEndpoint
}

// Open finds the cradle, detaches any kernel driver and claims the first
// interface with a bulk IN endpoint.
func (p *USBPort) Open() (err error) {
	p.ctx = gousb.NewContext()
	defer func() {
		if err != nil {
			p.Close()
		}
	}()

	p.dev, err = p.ctx.OpenDeviceWithVIDPID(VENDOR_ID, PRODUCT_ID)
	if err != nil {
		return err
	} else if p.dev == nil {
		return ErrNoDevice
	}
	if err = p.dev.SetAutoDetach(true); err != nil {
		return err
	}

	cn, in, alt, ok := bulkInterface(p.dev.Desc)
	if !ok {
		return ErrNoDevice
	}
	if p.cfg, err = p.dev.Config(cn); err != nil {
		return err
	}
	if p.intf, err = p.cfg.Interface(in, alt); err != nil {
		return err
	}
	if p.out, err = p.intf.OutEndpoint(EP_OUT & 0x0f); err != nil {
		return err
	}
	if p.in, err = p.intf.InEndpoint(EP_IN & 0x0f); err != nil {
		return err
	}

	log("cradle found on bus %03d device %03d",
		p.dev.Desc.Bus, p.dev.Desc.Address)
	return nil
}

func bulkInterface(d *gousb.DeviceDesc) (cfg, intf, alt int, ok bool) {
	for _, c := range d.Configs {
		for _, i := range c.Interfaces {
			for _, s := range i.AltSettings {
				for _, e := range s.Endpoints {
					if e.Direction == gousb.EndpointDirectionIn &&
						e.TransferType == gousb.TransferTypeBulk {
						return c.Number, s.Number, s.Alternate, true
					}
				}
			}
		}
	}
	return 0, 0, 0, false
}

func (p *USBPort) Close() {
	if p.intf != nil {
		p.intf.Close()
		p.intf = nil
	}
	if p.cfg != nil {
		p.cfg.Close()
		p.cfg = nil
	}
	if p.dev != nil {
		p.dev.Close()
		p.dev = nil
	}
	if p.ctx != nil {
		p.ctx.Close()
		p.ctx = nil
	}
}

func (p *USBPort) Write(b []byte, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	n, err := p.out.WriteContext(ctx, b)
	return n, usbErr(err)
}

func (p *USBPort) Read(b []byte, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	n, err := p.in.ReadContext(ctx, b)
	return n, usbErr(err)
}

func (p *USBPort) Reset() error {
	return p.dev.Reset()
}

// usbErr maps the ways libusb reports an expired transfer to ErrTimeout.
func usbErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, gousb.TransferTimedOut),
		errors.Is(err, gousb.TransferCancelled),
		errors.Is(err, gousb.ErrorTimeout):
		return TimeoutErr{err}
	default:
		return err
	}
}
