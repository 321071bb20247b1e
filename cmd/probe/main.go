package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/ecc1/somfy"
	"github.com/ecc1/somfy/cc111x"
)

var frequency = flag.Uint("freq", somfy.Frequency, "carrier `frequency` in Hz")

func main() {
	flag.Parse()
	r := cc111x.Open()
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
	defer r.Close()
	fmt.Printf("device: %s (%s)\n", r.Device(), r.Name())
	fmt.Printf("version: %s\n", r.Version())
	fmt.Printf("state: %s\n", r.State())
	fmt.Printf("old frequency: %d\n", r.Frequency())
	r.SetFrequency(uint32(*frequency))
	fmt.Printf("new frequency: %d\n", r.Frequency())
	if r.Error() != nil {
		log.Fatal(r.Error())
	}
}
