// Package buttons turns physical or simulated button presses into session
// events. All sources push into one Funnel, which debounces each button and
// hands events to the session controller over a single channel.
//
// Hardware buttons are wired active-low: the pin has its internal pull-up
// enabled and a press shorts it to ground, so a press is a falling edge.
package buttons
