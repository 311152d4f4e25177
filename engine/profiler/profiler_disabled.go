//go:build !profile

package profiler

import "errors"

// Stubbed no-op versions when the "profile" build tag is not set.

var ErrDisabled = errors.New("profiler: built without the profile tag")

func Init(capacity int) {}

func Start(name string) func() { return func() {} }

func Dump(path string) error { return ErrDisabled }
