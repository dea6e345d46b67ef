package main

import (
	"log"

	"dqx0.com/go/httpserv"
)

func main() {
	s, err := httpserv.New(httpserv.Config{
		Port:    8000,
		Verbose: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	s.Register("/", httpserv.HomePage())
	s.Register("/404.html", httpserv.NotFoundPage())
	s.Register("/405.html", httpserv.NotAllowedPage())

	// SIGINT triggers the coordinated shutdown; Run returns once the
	// accept loop has stopped.
	s.HandleSignals()
	if err := s.Run(); err != nil {
		log.Fatal(err)
	}
}
