package main

import "github.com/nathanhack/ldpcbp/cmd"

func main() {
	cmd.Execute()
}
