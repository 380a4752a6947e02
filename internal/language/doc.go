// Package language holds the ordered list of selectable languages and the
// source/destination selection that the buttons cycle through. The
// selection keeps source and destination distinct after every change.
package language
