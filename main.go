package main

import "github.com/wentf9/sftpcheck/cmd"

func main() {
	cmd.Execute()
}
