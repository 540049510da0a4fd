package main

import "github.com/Mohsinsiddi/cdico/cmd"

func main() {
	cmd.Execute()
}
