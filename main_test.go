package main

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	jwtSecret = []byte("test-signing-secret")
	os.Exit(m.Run())
}
