package main

import (
	"os"

	uigencmder "github.com/papercomputeco/uigen/cmd/uigen"
)

func main() {
	cmd := uigencmder.NewUigenCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
