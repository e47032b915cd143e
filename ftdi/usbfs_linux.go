// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	usb "github.com/kevmo314/go-usb"
)

// FTDI vendor requests.
const (
	reqReset      = 0x00
	reqSetBaud    = 0x03
	reqSetBitmode = 0x0B
	reqReadPins   = 0x0C

	reqTypeOut = 0x40
	reqTypeIn  = 0xC0

	// wIndex of channel A; single channel chips use the same value.
	interfaceA = 1
	epOut      = 0x02
	timeout    = 5 * time.Second
)

// usbHandle is the part of a go-usb device handle the driver uses.
type usbHandle interface {
	Close() error
	ClaimInterface(iface uint8) error
	ReleaseInterface(iface uint8) error
	KernelDriverActive(iface uint8) (bool, error)
	DetachKernelDriver(iface uint8) error
	ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error)
	BulkTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error)
}

// openUSB opens the device at bus and address with go-usb.
func openUSB(bus, addr int) (usbHandle, error) {
	devs, err := usb.DeviceList()
	if err != nil {
		return nil, err
	}
	for _, dev := range devs {
		if int(dev.Bus) == bus && int(dev.Address) == addr {
			h, err := dev.Open()
			if err != nil {
				return nil, err
			}
			return h, nil
		}
	}
	return nil, fmt.Errorf("bus %03d device %03d: %w", bus, addr, os.ErrNotExist)
}

type usbfsDriver struct {
	sysfs string
	devfs string
	open  func(bus, addr int) (usbHandle, error)
}

func (u *usbfsDriver) String() string {
	return "usbfs"
}

func (u *usbfsDriver) NewContext() (Context, error) {
	return &usbfsContext{drv: u}, nil
}

// usbDevice is one device as listed in sysfs.
type usbDevice struct {
	bus, dev  int
	vendor    uint16
	product   uint16
	bcd       uint16
	serial    string
	hasSerial bool
}

func (d *usbDevice) node(devfs string) string {
	return filepath.Join(devfs, fmt.Sprintf("%03d", d.bus), fmt.Sprintf("%03d", d.dev))
}

// resolve returns the device selected by d.
func (u *usbfsDriver) resolve(d Descriptor) (*usbDevice, error) {
	all, err := u.list()
	if err != nil {
		return nil, err
	}
	if d.Kind == ByNode {
		bus, dev, err := u.parseNode(d.Node)
		if err != nil {
			return nil, err
		}
		for i := range all {
			if all[i].bus == bus && all[i].dev == dev {
				return &all[i], nil
			}
		}
		return nil, fmt.Errorf("bus %03d device %03d is not listed in %s", bus, dev, u.sysfs)
	}
	var found []usbDevice
	for _, c := range all {
		if d.Matches(c.vendor, c.product, c.serial) {
			found = append(found, c)
		}
	}
	index := d.Index
	if d.Kind == BySerial {
		index = 0
	}
	if uint(len(found)) <= index {
		return nil, fmt.Errorf("%d matching device(s), wanted index %d", len(found), index)
	}
	return &found[index], nil
}

// parseNode accepts "003/001" or a path ending in it. The node must exist.
func (u *usbfsDriver) parseNode(node string) (int, int, error) {
	if !filepath.IsAbs(node) {
		node = filepath.Join(u.devfs, node)
	}
	if _, err := os.Stat(node); err != nil {
		return 0, 0, err
	}
	bus, err1 := strconv.Atoi(filepath.Base(filepath.Dir(node)))
	dev, err2 := strconv.Atoi(filepath.Base(node))
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("%s: not a usbfs node", node)
	}
	return bus, dev, nil
}

// list returns the devices in sysfs sorted by bus and device number.
func (u *usbfsDriver) list() ([]usbDevice, error) {
	entries, err := os.ReadDir(u.sysfs)
	if err != nil {
		return nil, err
	}
	var out []usbDevice
	for _, e := range entries {
		// Interfaces are listed as "1-1.2:1.0"; only devices are of interest.
		if strings.ContainsRune(e.Name(), ':') {
			continue
		}
		dir := filepath.Join(u.sysfs, e.Name())
		var d usbDevice
		var errs [5]error
		d.vendor, errs[0] = readHexAttr(dir, "idVendor")
		d.product, errs[1] = readHexAttr(dir, "idProduct")
		d.bcd, errs[2] = readHexAttr(dir, "bcdDevice")
		d.bus, errs[3] = readIntAttr(dir, "busnum")
		d.dev, errs[4] = readIntAttr(dir, "devnum")
		if errors.Join(errs[:]...) != nil {
			continue
		}
		// sysfs omits the file when iSerialNumber is 0.
		if s, err := readAttr(dir, "serial"); err == nil {
			d.serial = s
			d.hasSerial = true
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].bus != out[j].bus {
			return out[i].bus < out[j].bus
		}
		return out[i].dev < out[j].dev
	})
	return out, nil
}

func readAttr(dir, name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func readHexAttr(dir, name string) (uint16, error) {
	s, err := readAttr(dir, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), err
}

func readIntAttr(dir, name string) (int, error) {
	s, err := readAttr(dir, name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

// usbfsContext drives an adapter through go-usb.
type usbfsContext struct {
	drv     *usbfsDriver
	h       usbHandle
	chip    Chip
	claimed bool
	bitbang bool
}

func (c *usbfsContext) Open(d Descriptor) error {
	dev, err := c.drv.resolve(d)
	if err != nil {
		return err
	}
	node := dev.node(c.drv.devfs)
	open := c.drv.open
	if open == nil {
		open = openUSB
	}
	h, err := open(dev.bus, dev.dev)
	if err != nil {
		return fmt.Errorf("%s: %w", node, err)
	}
	c.h = h
	c.chip = chipFromBCD(dev.bcd, dev.hasSerial)
	// ftdi_sio is usually bound to the interface.
	if active, err := c.h.KernelDriverActive(0); err == nil && active {
		if err := c.h.DetachKernelDriver(0); err != nil {
			return fmt.Errorf("%s: detaching kernel driver: %w", node, err)
		}
	}
	if err := c.h.ClaimInterface(0); err != nil {
		return fmt.Errorf("%s: claiming interface: %w", node, err)
	}
	c.claimed = true
	if _, err := c.h.ControlTransfer(reqTypeOut, reqReset, 0, interfaceA, nil, timeout); err != nil {
		return fmt.Errorf("%s: reset: %w", node, err)
	}
	return nil
}

func (c *usbfsContext) SetBitmode(mask byte, mode Mode) error {
	if c.h == nil {
		return ErrClosed
	}
	_, err := c.h.ControlTransfer(reqTypeOut, reqSetBitmode, uint16(mode)<<8|uint16(mask), interfaceA, nil, timeout)
	if err == nil {
		c.bitbang = mode == ModeBitbang
	}
	return err
}

func (c *usbfsContext) SetBaudrate(baud int) error {
	if c.h == nil {
		return ErrClosed
	}
	value, index, err := baudDivisor(baud, c.bitbang)
	if err != nil {
		return err
	}
	_, err = c.h.ControlTransfer(reqTypeOut, reqSetBaud, value, index, nil, timeout)
	return err
}

func (c *usbfsContext) Chip() Chip {
	return c.chip
}

func (c *usbfsContext) ReadPins() (byte, error) {
	if c.h == nil {
		return 0, ErrClosed
	}
	var b [1]byte
	n, err := c.h.ControlTransfer(reqTypeIn, reqReadPins, 0, interfaceA, b[:], timeout)
	if err != nil {
		return 0, err
	}
	if n != 1 {
		return 0, fmt.Errorf("read %d bytes, expected 1", n)
	}
	return b[0], nil
}

func (c *usbfsContext) Write(p []byte) (int, error) {
	if c.h == nil {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	return c.h.BulkTransfer(epOut, p, timeout)
}

func (c *usbfsContext) Free() error {
	if c.h == nil {
		return nil
	}
	var err error
	if c.claimed {
		err = c.h.ReleaseInterface(0)
		c.claimed = false
	}
	if err2 := c.h.Close(); err == nil {
		err = err2
	}
	c.h = nil
	return err
}

// chipFromBCD derives the chip revision from bcdDevice, the same way
// libftdi does. Early BM chips report 0x200 without a serial number.
func chipFromBCD(bcd uint16, hasSerial bool) Chip {
	switch {
	case bcd == 0x400 || (bcd == 0x200 && !hasSerial):
		return ChipBM
	case bcd == 0x200:
		return ChipAM
	case bcd == 0x500:
		return Chip2232C
	case bcd == 0x600:
		return ChipR
	case bcd == 0x700:
		return Chip2232H
	case bcd == 0x800:
		return Chip4232H
	case bcd == 0x900:
		return Chip232H
	case bcd == 0x1000:
		return Chip230X
	}
	return ChipUnknown
}

func init() {
	_ = Register(&usbfsDriver{sysfs: "/sys/bus/usb/devices", devfs: "/dev/bus/usb"})
}
