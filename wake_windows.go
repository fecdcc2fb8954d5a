//go:build windows

package reactor

import "unsafe"

func newWakePipe() (readFD, writeFD int, err error) {
	return -1, -1, errUnsupportedPlatform
}

func wakeArm(int) error { return errUnsupportedPlatform }

func wakeRegister(int, int, unsafe.Pointer) error { return errUnsupportedPlatform }

func wakeRearm(int, int, unsafe.Pointer) error { return errUnsupportedPlatform }

func closeWakePipe(int, int) error { return errUnsupportedPlatform }
