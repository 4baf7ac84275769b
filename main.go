package main

import "github.com/adiwarna/identity-admin/cmd"

func main() {
	cmd.Execute()
}
