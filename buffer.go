package etherdev

// Frame geometry of the controller.
const (
	// MaxFrameLength is the largest Ethernet frame the controller holds, CRC included.
	MaxFrameLength = 1518
	// CRCSize is the length of the frame check sequence appended by hardware.
	CRCSize = 4
	// BufferSize is the capacity of the frame buffer and the device MTU.
	BufferSize = MaxFrameLength - CRCSize
)

// frameBuffer is the single buffer shared by every receive and transmit.
// Its content is only meaningful while a claim is held.
type frameBuffer [BufferSize]byte
