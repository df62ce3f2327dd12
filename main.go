package main

import "github.com/freshnest/backoffice/cmd"

func main() {
	cmd.Execute()
}
