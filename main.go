package main

import "github.com/devraider/dataroom/cmd"

func main() {
	cmd.Execute()
}
