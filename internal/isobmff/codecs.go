package isobmff

import (
	"encoding/binary"
	"fmt"
)

// readUnits reads count length-prefixed units, clamping the final unit
// at the payload end. Returned slices alias the payload.
func readUnits(payload []byte, offset, count int, units [][]byte) ([][]byte, int) {
	for i := 0; i < count && offset+2 <= len(payload); i++ {
		n := int(binary.BigEndian.Uint16(payload[offset:]))
		offset += 2
		if n == 0 {
			continue
		}
		if offset+n > len(payload) {
			n = len(payload) - offset
		}
		if n <= 0 {
			break
		}
		units = append(units, payload[offset:offset+n])
		offset += n
	}
	return units, offset
}

// decodeAVCConfig extracts the SPS and PPS units of an
// AVCDecoderConfigurationRecord.
func decodeAVCConfig(payload []byte) ([][]byte, error) {
	if len(payload) < 7 {
		return nil, fmt.Errorf("configuration record is %d bytes, need 7", len(payload))
	}
	if payload[0] != 1 {
		return nil, fmt.Errorf("unsupported configuration version %d", payload[0])
	}

	numSPS := int(payload[5] & 0x1F)
	units, offset := readUnits(payload, 6, numSPS, nil)

	if offset < len(payload) {
		numPPS := int(payload[offset])
		offset++
		units, _ = readUnits(payload, offset, numPPS, units)
	}

	return units, nil
}

// decodeHEVCConfig extracts the parameter set units of an
// HEVCDecoderConfigurationRecord. Units are stored in arrays grouped
// by NAL type; all of them are returned in order.
func decodeHEVCConfig(payload []byte) ([][]byte, error) {
	if len(payload) < 23 {
		return nil, fmt.Errorf("configuration record is %d bytes, need 23", len(payload))
	}
	if payload[0] != 1 {
		return nil, fmt.Errorf("unsupported configuration version %d", payload[0])
	}

	numArrays := int(payload[22])
	offset := 23

	var units [][]byte
	for a := 0; a < numArrays && offset+3 <= len(payload); a++ {
		// Array header: completeness bit plus NAL type, then the unit
		// count.
		count := int(binary.BigEndian.Uint16(payload[offset+1:]))
		offset += 3
		units, offset = readUnits(payload, offset, count, units)
	}

	return units, nil
}

// decodeAV1Config extracts the trailing config OBUs of an
// AV1CodecConfigurationRecord as one unit.
func decodeAV1Config(payload []byte) ([][]byte, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("configuration record is %d bytes, need 4", len(payload))
	}
	if payload[0]>>7 != 1 || payload[0]&0x7F != 1 {
		return nil, fmt.Errorf("unsupported marker/version byte 0x%02X", payload[0])
	}

	if len(payload) > 4 {
		return [][]byte{payload[4:]}, nil
	}
	return nil, nil
}
