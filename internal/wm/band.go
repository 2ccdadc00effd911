// SPDX-License-Identifier: EPL-2.0

package wm

// Band selects the carrier the watermark rides on.
type Band int

const (
	LF Band = iota
	HF
)

func (b Band) String() string {
	switch b {
	case LF:
		return "LF"
	case HF:
		return "HF"
	}

	return "??"
}

// Payload selects the packet layout.
type Payload int

const (
	ThreeBit Payload = iota
	OneBit
)

func (p Payload) String() string {
	switch p {
	case ThreeBit:
		return "3/8 BIT"
	case OneBit:
		return "  1 BIT"
	}

	return "?"
}

// Chips returns the number of payload chips following the header.
func (p Payload) Chips() int {
	if p == OneBit {
		return OneBitChips
	}

	return ThreeBitChips
}

// MarshalText renders the band as LF/HF.
func (b Band) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// MarshalText renders the payload as "3/8" or "1".
func (p Payload) MarshalText() ([]byte, error) {
	if p == OneBit {
		return []byte("1"), nil
	}

	return []byte("3/8"), nil
}
