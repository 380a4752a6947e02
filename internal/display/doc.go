// Package display turns the language selection and the session status into
// the four short lines of the appliance screen, and provides the devices
// those lines are shown on: the SSD1306 OLED, a console renderer for
// headless benches and a NATS mirror for remote monitoring.
package display
