package etherdev

// Medium is the link medium of a device.
type Medium uint8

// Medium values.
const (
	MediumEthernet Medium = iota + 1
	MediumIP
)

func (m Medium) String() string {
	switch m {
	case MediumEthernet:
		return "ethernet"
	case MediumIP:
		return "ip"
	}
	return "unknown"
}

// Checksum tells the stack which side handles a protocol checksum.
type Checksum uint8

// Checksum values.
const (
	// ChecksumBoth means the stack computes checksums on transmit and verifies them on receive.
	ChecksumBoth Checksum = iota
	// ChecksumTx means the stack only computes checksums on transmit.
	ChecksumTx
	// ChecksumRx means the stack only verifies checksums on receive.
	ChecksumRx
	// ChecksumNone means the hardware handles the checksum in both directions.
	ChecksumNone
)

// ChecksumCapabilities describes checksum offload per protocol.
type ChecksumCapabilities struct {
	IPv4   Checksum
	UDP    Checksum
	TCP    Checksum
	ICMPv4 Checksum
}

// The controller offloads no checksum.
var stackChecksums = ChecksumCapabilities{
	IPv4:   ChecksumBoth,
	UDP:    ChecksumBoth,
	TCP:    ChecksumBoth,
	ICMPv4: ChecksumBoth,
}

// Capabilities describes a device to the network stack.
type Capabilities struct {
	Medium Medium
	// MTU is the largest frame in bytes, Ethernet header included and CRC excluded.
	MTU int
	// MaxBurstSize is the number of frames handled per poll opportunity.
	MaxBurstSize int
	Checksum     ChecksumCapabilities
}
