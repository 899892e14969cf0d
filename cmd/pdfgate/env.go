package main

import (
	"io"
	"net"
	"os"
	"os/exec"

	"github.com/alnah/pdfgate"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(string) (string, bool)
	Environ   func() []string
	LookPath  func(string) (string, error)
	Runner    pdfgate.CommandRunner

	// OnListen, when set, is called once the listener is bound.
	OnListen func(net.Addr)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookupEnv: os.LookupEnv,
		Environ:   os.Environ,
		LookPath:  exec.LookPath,
		Runner:    &pdfgate.ExecRunner{},
	}
}

// getenv returns the value of key, or "" when unset.
func (e *Environment) getenv(key string) string {
	v, _ := e.LookupEnv(key)
	return v
}
