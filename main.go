package main

import (
	"github.com/dreamerjackson/confextract/cmd"
)

func main() {
	cmd.Execute()
}
