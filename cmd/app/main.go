package main

import "github.com/trungtung03/sicbo-test/internal/app"

func main() {
	app.Start()
}
