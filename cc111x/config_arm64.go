package cc111x

// Configuration for Raspberry Pi with Explorer Hat radio board.
// The OOK data line is wired from GPIO17 to the radio's asynchronous data input.

const (
	spiDevice = "/dev/spidev0.0"
	customCS  = 0
	resetPin  = 4
	dataPin   = 17
)
