//go:build nogpu

package main

func enableGPU() error {
	return errNoAccelerator
}
