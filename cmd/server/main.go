package main

import "feedbackhub/internal/app/server"

func main() {
	server.Run()
}
