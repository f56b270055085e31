package world

import "github.com/google/uuid"

// DeriveColor computes the stable display color for a player id. The hash
// walk and HSL bands are pinned by the wire protocol: client sprite tinting
// and server-rendered chat markup must agree bit-for-bit.
func DeriveColor(id uuid.UUID) string {
	bytes := id[:]
	var hash uint32
	for _, b := range bytes {
		hash = hash*31 + uint32(b)
	}

	hue := hash % 360
	saturation := 70 + hash%30
	lightness := 50 + hash%20

	r, g, b := hslToRGB(hue, saturation, lightness)
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v uint8) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[v>>4], digits[v&0x0f]})
}

func hslToRGB(h, s, l uint32) (uint8, uint8, uint8) {
	hf := float64(h) / 360.0
	sf := float64(s) / 100.0
	lf := float64(l) / 100.0

	c := (1 - abs(2*lf-1)) * sf
	x := c * (1 - abs(modf(hf*6, 2)-1))
	m := lf - c/2

	var r, g, b float64
	switch {
	case hf < 1.0/6:
		r, g, b = c, x, 0
	case hf < 2.0/6:
		r, g, b = x, c, 0
	case hf < 3.0/6:
		r, g, b = 0, c, x
	case hf < 4.0/6:
		r, g, b = 0, x, c
	case hf < 5.0/6:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return round255(r + m), round255(g + m), round255(b + m)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func modf(v, m float64) float64 {
	q := float64(int(v / m))
	rem := v - q*m
	if rem < 0 {
		rem += m
	}
	return rem
}

func round255(v float64) uint8 {
	scaled := v * 255.0
	if scaled < 0 {
		scaled = 0
	}
	return uint8(scaled + 0.5)
}
