package display

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// lineSpacing is the vertical distance between the four text rows
const lineSpacing = 16

// OLEDConfig selects the I2C bus of the SSD1306 module
type OLEDConfig struct {
	Bus    string // I2C bus name, "" for the first bus (e.g. /dev/i2c-1 on a Pi)
	Rotate bool   // Rotate the image 180 degrees
}

// OLED is a 128x64 SSD1306 display on I2C address 0x3C
type OLED struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
	img *image1bit.VerticalLSB
}

// OpenOLED initializes the host drivers and the display
func OpenOLED(cfg OLEDConfig) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host drivers: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %q: %w", cfg.Bus, err)
	}

	opts := ssd1306.DefaultOpts
	opts.Rotated = cfg.Rotate

	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to initialize SSD1306: %w", err)
	}

	return &OLED{
		bus: bus,
		dev: dev,
		img: image1bit.NewVerticalLSB(dev.Bounds()),
	}, nil
}

// Show draws the frame, one line every 16 pixels
func (o *OLED) Show(frame Frame) error {
	drawFrame(o.img, frame)
	if err := o.dev.Draw(o.dev.Bounds(), o.img, image.Point{}); err != nil {
		return fmt.Errorf("failed to draw on SSD1306: %w", err)
	}
	return nil
}

// Close blanks the display and releases the bus
func (o *OLED) Close() error {
	haltErr := o.dev.Halt()
	if err := o.bus.Close(); err != nil {
		return err
	}
	return haltErr
}

// drawFrame renders the text lines onto a monochrome image
func drawFrame(img draw.Image, frame Frame) {
	draw.Draw(img, img.Bounds(), &image.Uniform{C: image1bit.Off}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: face,
	}

	for i, line := range frame {
		drawer.Dot = fixed.P(0, i*lineSpacing+face.Ascent)
		drawer.DrawString(line)
	}
}
