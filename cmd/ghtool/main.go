package main

import "ghtool/internal/cmd"

func main() {
	cmd.Execute()
}
