package calc

import "testing"

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	if th.ZScore != 3.0 || th.IQR != 1.5 || th.MAD != 3.5 {
		t.Errorf("defaults = %+v, want 3.0/1.5/3.5", th)
	}
}

func TestThresholdClampAndStep(t *testing.T) {
	var th Thresholds

	th.SetZScore(0.2)
	if th.ZScore != 1.0 {
		t.Errorf("zscore below range = %v, want 1.0", th.ZScore)
	}
	th.SetZScore(9.9)
	if th.ZScore != 5.0 {
		t.Errorf("zscore above range = %v, want 5.0", th.ZScore)
	}
	th.SetZScore(2.34)
	if th.ZScore != 2.3 {
		t.Errorf("zscore snapped = %v, want 2.3", th.ZScore)
	}

	th.SetIQR(0.1)
	if th.IQR != 0.5 {
		t.Errorf("iqr below range = %v, want 0.5", th.IQR)
	}
	th.SetIQR(3.06)
	if th.IQR != 3.0 {
		t.Errorf("iqr above range = %v, want 3.0", th.IQR)
	}

	th.SetMAD(4.449)
	if th.MAD != 4.4 {
		t.Errorf("mad snapped = %v, want 4.4", th.MAD)
	}
}

func TestNormalized(t *testing.T) {
	th := Thresholds{ZScore: 0, IQR: 10, MAD: 3.55}.Normalized()
	if th.ZScore != 1.0 || th.IQR != 3.0 {
		t.Errorf("normalized = %+v", th)
	}
	if th.MAD != 3.5 && th.MAD != 3.6 {
		t.Errorf("mad = %v, want snapped to a 0.1 step", th.MAD)
	}
}

func TestChartSpecDecode(t *testing.T) {
	spec := ChartSpec(`{"data":[{"x":[1,2]}],"layout":{"title":"t"}}`)
	decoded, err := spec.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := decoded["data"]; !ok {
		t.Error("decoded spec missing data")
	}

	if decoded, err := ChartSpec("").Decode(); err != nil || decoded != nil {
		t.Errorf("empty spec = %v, %v; want nil, nil", decoded, err)
	}
	if _, err := ChartSpec("not json").Decode(); err == nil {
		t.Error("malformed spec decoded without error")
	}
}
