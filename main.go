package main

import (
	"os"

	"github.com/defectlink/defectlink/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
