package bgp

import (
	"github.com/pkg/errors"

	"github.com/csunetsec/mrtdecode/protocol/registry"
	"github.com/csunetsec/mrtdecode/protocol/wire"
)

// Capability is one OPEN optional-parameter capability (RFC 5492).
type Capability struct {
	Code registry.CodeName `json:"code"`
	Raw  []byte            `json:"raw,omitempty"`

	// Populated for capabilities this decoder understands structurally.
	MPAFI        uint16 `json:"mp_afi,omitempty"`
	MPSAFI       uint8  `json:"mp_safi,omitempty"`
	GracefulTime uint16 `json:"graceful_restart_time,omitempty"`
	AS4          uint32 `json:"as4,omitempty"`
	AddPathAFI   uint16 `json:"add_path_afi,omitempty"`
	AddPathSAFI  uint8  `json:"add_path_safi,omitempty"`
	AddPathMode  uint8  `json:"add_path_mode,omitempty"`
}

// DecodeCapabilities decodes the capability TLVs packed inside an OPEN
// message's Capabilities optional parameter (itself already unwrapped by
// the caller from the outer optional-parameter TLV).
func DecodeCapabilities(buf []byte) ([]Capability, error) {
	c := wire.New(buf)
	var out []Capability
	for c.Remaining() > 0 {
		cap, err := decodeCapability(c)
		if err != nil {
			return out, err
		}
		out = append(out, cap)
	}
	return out, nil
}

func decodeCapability(c *wire.Cursor) (Capability, error) {
	var cap Capability

	codeV, err := c.Num(1)
	if err != nil {
		return cap, errors.Wrap(err, "bgp: capability code")
	}
	lenV, err := c.Num(1)
	if err != nil {
		return cap, errors.Wrap(err, "bgp: capability length")
	}
	body, err := c.Bytes(int(lenV))
	if err != nil {
		return cap, errors.Wrap(err, "bgp: capability value")
	}
	code := uint8(codeV)
	cap.Code = registry.Capability(code)

	switch code {
	case registry.CapMultiprotocol:
		if len(body) != 4 {
			return cap, errors.New("bgp: multiprotocol capability must be 4 bytes")
		}
		cap.MPAFI = be16(body[:2])
		cap.MPSAFI = body[3]
	case registry.CapGracefulRestart:
		if len(body) < 2 {
			return cap, errors.New("bgp: graceful restart capability too short")
		}
		cap.GracefulTime = be16(body[:2]) & 0x0FFF
	case registry.CapAS4:
		if len(body) != 4 {
			return cap, errors.New("bgp: 4-octet AS capability must be 4 bytes")
		}
		cap.AS4 = be32(body)
	case registry.CapAddPath:
		if len(body) != 4 {
			return cap, errors.New("bgp: ADD-PATH capability must be 4 bytes")
		}
		cap.AddPathAFI = be16(body[:2])
		cap.AddPathSAFI = body[2]
		cap.AddPathMode = body[3]
	default:
		cap.Raw = body
	}
	return cap, nil
}
