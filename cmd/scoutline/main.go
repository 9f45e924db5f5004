// Package main provides the Scoutline CLI entry point.
package main

func main() {
	Execute()
}
