package main

import "happy-thoughts-backend/cmd"

func main() {
	cmd.Run()
}
