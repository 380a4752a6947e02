// Package gui provides a fyne desktop simulator of the babelbox hardware.
//
// The simulator window shows the four line screen the OLED would show,
// offers the source, target and GO buttons (also bound to the s, d and g
// keys) and a log panel fed by the process logger. It lets the whole
// session run on a development machine without GPIO or I2C hardware.
package gui
