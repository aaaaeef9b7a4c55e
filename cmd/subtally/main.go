// Command subtally is the terminal client for the subscription tracker.
package main

import "github.com/subtally/subtally/cmd/subtally/cmd"

func main() {
	cmd.Execute()
}
