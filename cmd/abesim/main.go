// cmd/abesim/main.go
package main

import (
	"abesim/internal/app"
	"abesim/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
