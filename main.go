package main

import "github.com/worktrack/payroll/cmd"

func main() {
	cmd.Execute()
}
