//go:build !cgo

package main

import (
	"errors"

	"github.com/willbeason/mandelspiral/pkg/render"
)

func runWindow(_ *render.Session, _ string) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
