/*
Copyright 2026 Melih Demir
*/

package main

import "github.com/demirmelih/f1-race-strategist/cmd"

func main() {
	cmd.Execute()
}
