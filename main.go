package main

import "csv2json/cmd"

func main() {
	cmd.Execute()
}
