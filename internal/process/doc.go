// Package process terminates the headless browser's process tree when a
// capture session closes.
package process
