package main

import "github.com/brightfold/landing-api/cmd"

func main() {
	cmd.Execute()
}
