package main

import "github.com/fakeyudi/cogtrace/cmd"

func main() {
	cmd.Execute()
}
