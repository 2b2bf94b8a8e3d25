// Copyright © 2018 The ELPS authors

package main

import "github.com/jshint/jshint-sub001/cmd"

func main() {
	cmd.Execute()
}
