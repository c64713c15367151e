package main

import "errors"

var (
	errNoAccelerator = errors.New("ditherfx: no GPU accelerator registered")
	errNoDevice      = errors.New("ditherfx: GPU accelerator has no device")
)
