package pbuf

import "testing"

func TestNormalizeCapacity(t *testing.T) {
	const chunkSize = 4096 << 11

	tests := []struct {
		name string
		req  int
		want int
	}{
		{"zero", 0, 16},
		{"already aligned tiny", 16, 16},
		{"tiny rounds up", 17, 32},
		{"tiny boundary below 512", 497, 512},
		{"small power of two passthrough", 512, 512},
		{"small rounds up", 513, 1024},
		{"normal rounds up", 5000, 8192},
		{"exact chunk size passthrough", chunkSize, chunkSize},
		{"huge passes through unchanged", chunkSize + 1, chunkSize + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeCapacity(tt.req, chunkSize)
			if err != nil {
				t.Fatalf("normalizeCapacity(%d) error: %v", tt.req, err)
			}
			if got != tt.want {
				t.Errorf("normalizeCapacity(%d) = %d, want %d", tt.req, got, tt.want)
			}
		})
	}
}

func TestNormalizeCapacityRejectsNegative(t *testing.T) {
	if _, err := normalizeCapacity(-1, 4096); err == nil {
		t.Fatal("expected error for negative request")
	}
}

func TestClassify(t *testing.T) {
	const pageSize = 4096
	const chunkSize = pageSize << 11

	tests := []struct {
		norm int
		want sizeClass
	}{
		{16, sizeTiny},
		{496, sizeTiny},
		{512, sizeSmall},
		{2048, sizeSmall},
		{4096, sizeNormal},
		{chunkSize, sizeNormal},
		{chunkSize + 1, sizeHuge},
	}
	for _, tt := range tests {
		if got := classify(tt.norm, pageSize, chunkSize); got != tt.want {
			t.Errorf("classify(%d) = %v, want %v", tt.norm, got, tt.want)
		}
	}
}

func TestTinyIdx(t *testing.T) {
	if got := tinyIdx(0); got != 0 {
		t.Errorf("tinyIdx(0) = %d, want 0", got)
	}
	if got := tinyIdx(16); got != 1 {
		t.Errorf("tinyIdx(16) = %d, want 1", got)
	}
	if got := tinyIdx(496); got != 31 {
		t.Errorf("tinyIdx(496) = %d, want 31", got)
	}
}

func TestSmallIdx(t *testing.T) {
	tests := []struct {
		norm int
		want int
	}{
		{512, 0},
		{1024, 1},
		{2048, 2},
	}
	for _, tt := range tests {
		if got := smallIdx(tt.norm); got != tt.want {
			t.Errorf("smallIdx(%d) = %d, want %d", tt.norm, got, tt.want)
		}
	}
}

func TestIsTinyOrSmall(t *testing.T) {
	const pageSize = 4096
	if !isTinyOrSmall(2048, pageSize) {
		t.Error("2048 should be tiny/small under a 4096 page")
	}
	if isTinyOrSmall(4096, pageSize) {
		t.Error("4096 should not be tiny/small under a 4096 page")
	}
}
