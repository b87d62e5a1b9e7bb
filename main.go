package main

import "github.com/Digital-Shane/tvshowinfo/internal/cmd"

func main() {
	cmd.Execute()
}
