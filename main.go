package main

import "github.com/sardhan/security-scanner/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
