package cc111x

// Configuration for Intel Edison in 64-bit mode with Explorer radio board.
// The OOK data line is wired from GP48 to the radio's asynchronous data input.

const (
	spiDevice = "/dev/spidev5.1"
	customCS  = 110
	resetPin  = 14
	dataPin   = 48
)
