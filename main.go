package main

import "github.com/planviz/planviz/cmd"

func main() {
	cmd.Execute()
}
