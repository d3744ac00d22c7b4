package bgp

import (
	"net"

	"github.com/pkg/errors"

	"github.com/csunetsec/mrtdecode/protocol/nlri"
	"github.com/csunetsec/mrtdecode/protocol/registry"
	"github.com/csunetsec/mrtdecode/protocol/wire"
)

// Header is the fixed 19-byte BGP message header (RFC 4271 §4.1).
type Header struct {
	Marker []byte            `json:"-"`
	Length uint16            `json:"length"`
	Type   registry.CodeName `json:"type"`
}

// OptParam is an OPEN message optional parameter this decoder does not
// interpret structurally.
type OptParam struct {
	Type  uint8  `json:"type"`
	Value []byte `json:"value"`
}

// OpenMessage is a decoded BGP OPEN message.
type OpenMessage struct {
	Version      uint8        `json:"version"`
	MyAS         uint16       `json:"my_as"`
	HoldTime     uint16       `json:"hold_time"`
	BGPID        net.IP       `json:"bgp_id"`
	Capabilities []Capability `json:"capabilities,omitempty"`
	OtherParams  []OptParam   `json:"other_params,omitempty"`
}

// UpdateMessage is a decoded BGP UPDATE message.
type UpdateMessage struct {
	WithdrawnRoutes []nlri.Nlri `json:"withdrawn_routes,omitempty"`
	Attrs           []BgpAttr   `json:"attrs,omitempty"`
	NLRI            []nlri.Nlri `json:"nlri,omitempty"`
	AddPath         bool        `json:"add_path"`
}

// NotificationMessage is a decoded BGP NOTIFICATION message.
type NotificationMessage struct {
	ErrorCode    registry.CodeName `json:"error_code"`
	ErrorSubcode registry.CodeName `json:"error_subcode"`
	Data         []byte            `json:"data,omitempty"`
}

// RouteRefreshMessage is a decoded BGP ROUTE-REFRESH message (RFC 2918).
type RouteRefreshMessage struct {
	AFI  uint16 `json:"afi"`
	SAFI uint8  `json:"safi"`
}

// Message is a decoded BGP message; exactly one of the typed bodies is
// populated (or none, for KEEPALIVE).
type Message struct {
	Header       Header                `json:"header"`
	Open         *OpenMessage          `json:"open,omitempty"`
	Update       *UpdateMessage        `json:"update,omitempty"`
	Notification *NotificationMessage  `json:"notification,omitempty"`
	RouteRefresh *RouteRefreshMessage  `json:"route_refresh,omitempty"`
}

// DecodeMessage decodes one BGP message occupying exactly buf (the MRT
// or BGP4MP framing having already bounded it). ctx supplies AS width
// and ADD-PATH mode for the embedded UPDATE.
func DecodeMessage(buf []byte, ctx *wire.Context) (*Message, error) {
	c := wire.New(buf)
	marker, err := c.Bytes(16)
	if err != nil {
		return nil, errors.Wrap(err, "bgp: message marker")
	}
	lengthV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "bgp: message length")
	}
	typeV, err := c.Num(1)
	if err != nil {
		return nil, errors.Wrap(err, "bgp: message type")
	}

	msg := &Message{Header: Header{
		Marker: marker,
		Length: uint16(lengthV),
		Type:   registry.BGPMessageType(uint8(typeV)),
	}}

	body := c.Rest()
	switch uint8(typeV) {
	case registry.BGPMsgOpen:
		open, err := decodeOpen(body)
		if err != nil {
			return nil, errors.Wrap(err, "bgp: OPEN")
		}
		msg.Open = open
	case registry.BGPMsgUpdate:
		upd, err := decodeUpdate(body, ctx)
		if err != nil {
			return nil, errors.Wrap(err, "bgp: UPDATE")
		}
		msg.Update = upd
	case registry.BGPMsgNotification:
		note, err := decodeNotification(body)
		if err != nil {
			return nil, errors.Wrap(err, "bgp: NOTIFICATION")
		}
		msg.Notification = note
	case registry.BGPMsgRouteRefresh:
		rr, err := decodeRouteRefresh(body)
		if err != nil {
			return nil, errors.Wrap(err, "bgp: ROUTE-REFRESH")
		}
		msg.RouteRefresh = rr
	case registry.BGPMsgKeepalive:
		// no body
	default:
		return nil, errors.Errorf("bgp: unknown message type %d", typeV)
	}
	return msg, nil
}

func decodeOpen(body []byte) (*OpenMessage, error) {
	c := wire.New(body)
	versionV, err := c.Num(1)
	if err != nil {
		return nil, errors.Wrap(err, "version")
	}
	myASV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "my AS")
	}
	holdTimeV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "hold time")
	}
	idBytes, err := c.Bytes(4)
	if err != nil {
		return nil, errors.Wrap(err, "BGP identifier")
	}
	optLenV, err := c.Num(1)
	if err != nil {
		return nil, errors.Wrap(err, "optional parameters length")
	}
	optBytes, err := c.Bytes(int(optLenV))
	if err != nil {
		return nil, errors.Wrap(err, "optional parameters")
	}

	open := &OpenMessage{
		Version:  uint8(versionV),
		MyAS:     uint16(myASV),
		HoldTime: uint16(holdTimeV),
		BGPID:    net.IP(idBytes).To4(),
	}

	oc := wire.New(optBytes)
	for oc.Remaining() > 0 {
		ptypeV, err := oc.Num(1)
		if err != nil {
			return nil, errors.Wrap(err, "optional parameter type")
		}
		plenV, err := oc.Num(1)
		if err != nil {
			return nil, errors.Wrap(err, "optional parameter length")
		}
		pval, err := oc.Bytes(int(plenV))
		if err != nil {
			return nil, errors.Wrap(err, "optional parameter value")
		}
		const optParamCapabilities = 2
		if ptypeV == optParamCapabilities {
			caps, err := DecodeCapabilities(pval)
			if err != nil {
				return nil, errors.Wrap(err, "capabilities")
			}
			open.Capabilities = append(open.Capabilities, caps...)
		} else {
			open.OtherParams = append(open.OtherParams, OptParam{Type: uint8(ptypeV), Value: pval})
		}
	}
	return open, nil
}

func decodeUpdate(body []byte, ctx *wire.Context) (*UpdateMessage, error) {
	c := wire.New(body)
	wlenV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "withdrawn routes length")
	}
	wbuf, err := c.Bytes(int(wlenV))
	if err != nil {
		return nil, errors.Wrap(err, "withdrawn routes")
	}
	alenV, err := c.Num(2)
	if err != nil {
		return nil, errors.Wrap(err, "total path attribute length")
	}
	abuf, err := c.Bytes(int(alenV))
	if err != nil {
		return nil, errors.Wrap(err, "path attributes")
	}
	nbuf := c.Rest()

	withdrawn, addPathW, err := nlri.Region(wbuf, registry.AFIIPv4, registry.SAFIUnicast, ctx.AddPath)
	if err != nil {
		return nil, errors.Wrap(err, "withdrawn routes nlri")
	}

	attrs, err := Decode(abuf, ctx)
	if err != nil {
		return nil, errors.Wrap(err, "path attributes")
	}

	announced, addPathN, err := nlri.Region(nbuf, registry.AFIIPv4, registry.SAFIUnicast, ctx.AddPath)
	if err != nil {
		return nil, errors.Wrap(err, "announced nlri")
	}

	return &UpdateMessage{
		WithdrawnRoutes: withdrawn,
		Attrs:           attrs,
		NLRI:            announced,
		AddPath:         addPathW || addPathN,
	}, nil
}

func decodeNotification(body []byte) (*NotificationMessage, error) {
	if len(body) < 2 {
		return nil, errors.New("notification message too short")
	}
	code := body[0]
	subcode := body[1]
	return &NotificationMessage{
		ErrorCode:    registry.BGPErrorCode(code),
		ErrorSubcode: registry.BGPErrorSubcode(code, subcode),
		Data:         body[2:],
	}, nil
}

func decodeRouteRefresh(body []byte) (*RouteRefreshMessage, error) {
	if len(body) != 4 {
		return nil, errors.New("route-refresh message must be 4 bytes")
	}
	return &RouteRefreshMessage{AFI: be16(body[:2]), SAFI: body[3]}, nil
}
