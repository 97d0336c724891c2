// Package main, IntelliView API sunucusunun giriş noktasıdır.
package main

import (
	"os"

	"github.com/intelliview/intelliview-api/cmd/intelliview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
