// internal/epd/epd.go

// Package epd drives a Waveshare-class 800x480 black&white e-paper panel
// (UC8179 controller) over SPI with DC/RESET/BUSY lines. Full refresh
// only; a commit keeps the panel busy for several seconds.
package epd

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Commands (UC8179).
const (
	panelSetting           byte = 0x00
	powerSetting           byte = 0x01
	powerOff               byte = 0x02
	powerOn                byte = 0x04
	boosterSoftStart       byte = 0x06
	deepSleep              byte = 0x07
	dataStartTransmission1 byte = 0x10
	displayRefresh         byte = 0x12
	dataStartTransmission2 byte = 0x13
	dualSPI                byte = 0x15
	vcomDataInterval       byte = 0x50
	tconSetting            byte = 0x60
	resolutionSetting      byte = 0x61
)

// busyTimeout caps the wait on the BUSY line. A full refresh takes a few
// seconds; anything beyond this means the panel is wedged.
const busyTimeout = 30 * time.Second

// Opts holds the panel geometry.
type Opts struct {
	Width  int
	Height int
}

// EPD7in5v2 is the 7.5" 800x480 black&white panel.
var EPD7in5v2 = Opts{Width: 800, Height: 480}

// Dev is a handle to the panel.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	opts      Opts
	maxTxSize int
}

var _ display.Drawer = &Dev{}

// New connects to the panel and runs the power-on init sequence.
func New(p spi.Port, dc, rst gpio.PinOut, busy gpio.PinIn, opts Opts) (*Dev, error) {
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("epd: connect: %w", err)
	}

	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096
	}

	d := &Dev{
		c:         c,
		dc:        dc,
		rst:       rst,
		busy:      busy,
		opts:      opts,
		maxTxSize: maxTxSize,
	}

	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) init() error {
	if err := d.reset(); err != nil {
		return err
	}

	eh := errorHandler{d: d}

	eh.sendCommand(powerSetting)
	eh.sendData([]byte{0x07, 0x07, 0x3F, 0x3F})

	eh.sendCommand(boosterSoftStart)
	eh.sendData([]byte{0x17, 0x17, 0x28, 0x17})

	eh.sendCommand(powerOn)
	eh.waitUntilIdle()

	// KW mode, LUT from OTP
	eh.sendCommand(panelSetting)
	eh.sendData([]byte{0x1F})

	eh.sendCommand(resolutionSetting)
	eh.sendData([]byte{
		byte(d.opts.Width >> 8), byte(d.opts.Width),
		byte(d.opts.Height >> 8), byte(d.opts.Height),
	})

	eh.sendCommand(dualSPI)
	eh.sendData([]byte{0x00})

	eh.sendCommand(vcomDataInterval)
	eh.sendData([]byte{0x10, 0x07})

	eh.sendCommand(tconSetting)
	eh.sendData([]byte{0x22})

	return eh.err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.opts.Width, d.opts.Height)
}

// Draw implements display.Drawer with a full-screen refresh. The panel has
// no partial-region mode; dstRect other than Bounds() is rejected.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	if dstRect != d.Bounds() {
		return errors.New("epd: only full-screen draws are supported")
	}

	next := image1bit.NewVerticalLSB(dstRect)
	draw.Src.Draw(next, dstRect, src, srcPts)

	eh := errorHandler{d: d}

	// old-data channel, unused in KW mode but expected by the controller
	eh.sendCommand(dataStartTransmission1)
	eh.sendData(filledRows(d.opts, 0xFF))

	eh.sendCommand(dataStartTransmission2)
	rowBytes := (d.opts.Width + 7) / 8
	for y := 0; y < d.opts.Height; y++ {
		row := make([]byte, rowBytes)
		for x := 0; x < rowBytes; x++ {
			for bit := 0; bit < 8; bit++ {
				// 1 = black on the DTM2 channel
				if !src1bitAt(next, x*8+bit, y) {
					row[x] |= 0x80 >> bit
				}
			}
		}
		eh.sendData(row)
	}

	eh.sendCommand(displayRefresh)
	eh.waitUntilIdle()

	return eh.err
}

// Clear flushes the panel to white.
func (d *Dev) Clear() error {
	eh := errorHandler{d: d}

	eh.sendCommand(dataStartTransmission1)
	eh.sendData(filledRows(d.opts, 0xFF))
	eh.sendCommand(dataStartTransmission2)
	eh.sendData(filledRows(d.opts, 0x00))
	eh.sendCommand(displayRefresh)
	eh.waitUntilIdle()

	return eh.err
}

// Sleep puts the panel into deep sleep. Wake requires a hardware reset,
// i.e. a New.
func (d *Dev) Sleep() error {
	eh := errorHandler{d: d}

	eh.sendCommand(powerOff)
	eh.waitUntilIdle()
	eh.sendCommand(deepSleep)
	eh.sendData([]byte{0xA5})

	return eh.err
}

// Halt implements conn.Resource; it clears the panel and powers it down.
func (d *Dev) Halt() error {
	if err := d.Clear(); err != nil {
		return err
	}
	return d.Sleep()
}

func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.opts.Width, d.opts.Height)
}

// ---- low level ----

func (d *Dev) sendCommand(c byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	return d.c.Tx([]byte{c}, nil)
}

func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) > 0 {
		n := len(data)
		if n > d.maxTxSize {
			n = d.maxTxSize
		}
		if err := d.c.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

func (d *Dev) reset() error {
	eh := errorHandler{d: d}

	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)
	eh.rstOut(gpio.Low)
	time.Sleep(2 * time.Millisecond)
	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)

	return eh.err
}

// waitUntilIdle blocks while the BUSY line is low (panel busy).
func (d *Dev) waitUntilIdle() error {
	deadline := time.Now().Add(busyTimeout)
	for d.busy.Read() == gpio.Low {
		if time.Now().After(deadline) {
			return errors.New("epd: busy timeout")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func filledRows(opts Opts, b byte) []byte {
	rowBytes := (opts.Width + 7) / 8
	data := make([]byte, rowBytes*opts.Height)
	for i := range data {
		data[i] = b
	}
	return data
}

func src1bitAt(img *image1bit.VerticalLSB, x, y int) bool {
	return bool(img.BitAt(x, y))
}

// errorHandler keeps a send sequence readable: after the first failure all
// later calls are no-ops and the error is returned once.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) sendCommand(c byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.sendCommand(c)
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.sendData(data)
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.waitUntilIdle()
}
