package isobmff

import (
	"bytes"
	"testing"
)

func TestDecodeAVCConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"too short", []byte{1, 0x64, 0x00}},
		{"wrong version", []byte{2, 0x64, 0x00, 0x28, 0xFF, 0xE0, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeAVCConfig(tt.payload); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDecodeAVCConfig_ClampsFinalUnit(t *testing.T) {
	// One SPS declaring 100 bytes with only 3 present.
	payload := []byte{1, 0x64, 0x00, 0x28, 0xFF, 0xE1, 0x00, 0x64, 0x67, 0x11, 0x22}

	units, err := decodeAVCConfig(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if !bytes.Equal(units[0], []byte{0x67, 0x11, 0x22}) {
		t.Errorf("expected the unit clamped to the payload end, got %x", units[0])
	}
}

func TestDecodeAVCConfig_SkipsZeroLengthUnit(t *testing.T) {
	payload := []byte{
		1, 0x64, 0x00, 0x28, 0xFF,
		0xE2,       // two SPS units
		0x00, 0x00, // first one empty
		0x00, 0x02, 0x67, 0x42,
		0x00, // no PPS
	}

	units, err := decodeAVCConfig(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if !bytes.Equal(units[0], []byte{0x67, 0x42}) {
		t.Errorf("expected 6742, got %x", units[0])
	}
}

func TestDecodeHEVCConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"too short", make([]byte, 22)},
		{"wrong version", make([]byte, 23)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeHEVCConfig(tt.payload); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDecodeHEVCConfig_ArrayCountOverrun(t *testing.T) {
	payload := make([]byte, 23)
	payload[0] = 1
	payload[22] = 5 // five arrays declared, one present
	payload = append(payload, 0xA1, 0x00, 0x01, 0x00, 0x02, 0x42, 0x01)

	units, err := decodeHEVCConfig(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	if !bytes.Equal(units[0], []byte{0x42, 0x01}) {
		t.Errorf("expected 4201, got %x", units[0])
	}
}

func TestDecodeAV1Config(t *testing.T) {
	tests := []struct {
		name      string
		payload   []byte
		wantUnits int
		wantErr   bool
	}{
		{"config OBUs present", []byte{0x81, 0x05, 0x0C, 0x00, 0x0A, 0x0B}, 1, false},
		{"no config OBUs", []byte{0x81, 0x05, 0x0C, 0x00}, 0, false},
		{"marker clear", []byte{0x01, 0x05, 0x0C, 0x00}, 0, true},
		{"wrong version", []byte{0x82, 0x05, 0x0C, 0x00}, 0, true},
		{"too short", []byte{0x81, 0x05}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units, err := decodeAV1Config(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(units) != tt.wantUnits {
				t.Errorf("expected %d units, got %d", tt.wantUnits, len(units))
			}
		})
	}
}
