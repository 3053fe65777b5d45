package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-mimeframe/cmd/mimeframe/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
