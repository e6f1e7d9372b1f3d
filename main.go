package main

import (
	"os"

	"github.com/hrmsuite/hrms/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
