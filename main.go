package main

import "nathanbeddoewebdev/pbrec/cmd"

func main() {
	cmd.Execute()
}
