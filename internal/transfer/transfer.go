// Package transfer is the payload carried by a drag from the Finder panel
// to the desktop canvas. A transfer always copies: the panel item stays put
// and the drop creates a new desktop icon.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MediaType is the format key the payload is stored under.
const MediaType = "application/x-glassdesk-transfer+json"

// Formats written by older hosts that split the payload over two keys.
const (
	legacySourceType = "application/x-mini-desktop-source"
	legacyAppType    = "application/x-mini-desktop-app"
)

// SourceFinder tags payloads that originate from the Finder panel.
const SourceFinder = "finder"

var (
	ErrNoPayload = errors.New("transfer: no payload")
	ErrMalformed = errors.New("transfer: malformed payload")
)

// Effect is the operation a drag source allows.
type Effect string

const (
	EffectNone Effect = "none"
	EffectCopy Effect = "copy"
)

// Payload identifies what is being dragged and where it came from.
type Payload struct {
	SourceTag     string `json:"source"`
	ApplicationID string `json:"application_id"`
}

// DataTransfer is the host's drag-and-drop data channel.
type DataTransfer interface {
	SetData(format, data string)
	GetData(format string) string
	Types() []string
	SetEffectAllowed(e Effect)
	EffectAllowed() Effect
}

// Start fills dt for a drag of appID out of the Finder panel.
func Start(dt DataTransfer, appID string) error {
	return Encode(dt, Payload{SourceTag: SourceFinder, ApplicationID: appID})
}

// Encode stores p in dt and declares copy semantics.
func Encode(dt DataTransfer, p Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode transfer payload: %w", err)
	}
	dt.SetData(MediaType, string(data))
	dt.SetEffectAllowed(EffectCopy)
	return nil
}

// Accepts reports whether a drag carrying dt may be dropped. Only the
// format list is consulted because hosts hide the data until the drop.
func Accepts(dt DataTransfer) bool {
	if dt == nil {
		return false
	}
	for _, t := range dt.Types() {
		if t == MediaType || t == legacySourceType {
			return true
		}
	}
	return false
}

// Decode reads the payload back out of dt.
func Decode(dt DataTransfer) (Payload, error) {
	if dt == nil {
		return Payload{}, ErrNoPayload
	}
	if raw := dt.GetData(MediaType); raw != "" {
		var p Payload
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		p.SourceTag = strings.TrimSpace(p.SourceTag)
		p.ApplicationID = strings.TrimSpace(p.ApplicationID)
		return p, nil
	}

	source := strings.TrimSpace(dt.GetData(legacySourceType))
	appID := strings.TrimSpace(dt.GetData(legacyAppType))
	if source == "" && appID == "" {
		return Payload{}, ErrNoPayload
	}
	return Payload{SourceTag: source, ApplicationID: appID}, nil
}

// Carrier is an in-memory DataTransfer.
type Carrier struct {
	data   map[string]string
	effect Effect
}

// NewCarrier returns an empty carrier that allows no effect.
func NewCarrier() *Carrier {
	return &Carrier{data: make(map[string]string), effect: EffectNone}
}

// NewFinderCarrier returns a carrier already loaded for a Finder drag of
// appID.
func NewFinderCarrier(appID string) *Carrier {
	c := NewCarrier()
	// Encoding a two-string struct cannot fail.
	_ = Start(c, appID)
	return c
}

func (c *Carrier) SetData(format, data string) {
	c.data[format] = data
}

func (c *Carrier) GetData(format string) string {
	return c.data[format]
}

func (c *Carrier) Types() []string {
	out := make([]string, 0, len(c.data))
	for k := range c.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c *Carrier) SetEffectAllowed(e Effect) {
	c.effect = e
}

func (c *Carrier) EffectAllowed() Effect {
	return c.effect
}
