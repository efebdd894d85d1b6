package main

import "github.com/alexiusacademia/gobatten/cmd"

func main() {
	cmd.Execute()
}
