// Package main enables pingcheck to execute as a CLI tool
package main

import (
	"os"

	"github.com/pouriyajamshidi/pingcheck/internal/app"
)

func main() {
	os.Exit(app.Run())
}
