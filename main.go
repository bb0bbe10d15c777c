package main

import (
	"log"
	"os"

	"github.com/TFMV/walkscan/cmd"
)

func main() {
	// Diagnostics go to stderr; stdout carries only the run summary.
	log.SetFlags(0)
	log.SetPrefix("walkscan: ")

	// Set up a deferred function to recover from panics.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v", r)
			os.Exit(1)
		}
	}()

	if err := cmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
