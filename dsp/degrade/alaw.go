package degrade

import "math"

// Segment end points of the 13-bit A-law companding curve.
var alawSegEnd = [8]int32{0x1F, 0x3F, 0x7F, 0xFF, 0x1FF, 0x3FF, 0x7FF, 0xFFF}

// linearToALaw compresses a 16-bit linear sample to an A-law byte.
func linearToALaw(pcm int16) byte {
	v := int32(pcm) >> 3

	var mask byte
	if v >= 0 {
		mask = 0xD5
	} else {
		mask = 0x55
		v = -v - 1
	}

	seg := 0
	for seg < len(alawSegEnd) && v > alawSegEnd[seg] {
		seg++
	}

	if seg >= len(alawSegEnd) {
		return 0x7F ^ mask
	}

	aval := byte(seg << 4)
	if seg < 2 {
		aval |= byte(v>>1) & 0x0F
	} else {
		aval |= byte(v>>seg) & 0x0F
	}

	return aval ^ mask
}

// aLawToLinear expands an A-law byte to a 16-bit linear sample.
func aLawToLinear(a byte) int16 {
	a ^= 0x55

	t := int32(a&0x0F) << 4
	seg := int32(a&0x70) >> 4

	switch seg {
	case 0:
		t += 8
	case 1:
		t += 0x108
	default:
		t += 0x108
		t <<= seg - 1
	}

	if a&0x80 != 0 {
		return int16(t)
	}

	return int16(-t)
}

// floatToPCM16 scales a sample in [-1, 1] to int16 with saturation.
func floatToPCM16(v float64) int16 {
	return int16(math.Round(max(-1, min(v, 1)) * math.MaxInt16))
}

func pcm16ToFloat(v int16) float64 {
	return float64(v) / math.MaxInt16
}
