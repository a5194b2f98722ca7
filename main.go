package main

import "github.com/frahmantamala/hr-core/cmd"

func main() {
	cmd.Execute()
}
