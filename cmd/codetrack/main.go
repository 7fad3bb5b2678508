// Copyright © 2018 One Concern

package main

import (
	"github.com/codetrack/codetrack/cmd/codetrack/cmd"
)

func main() {
	cmd.Execute()
}
