package main

import "github.com/oobkit/yaffs/cmd"

func main() {
	cmd.Execute()
}
