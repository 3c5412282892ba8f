package geo

import (
	"math"
	"testing"
)

func TestIsValidLocation(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		expects bool
	}{
		{"typical", "40.71,-74.01", true},
		{"spaces around parts", " 40.71 , -74.01 ", true},
		{"corners", "-90,180", true},
		{"other corners", "90,-180", true},
		{"integers", "0,0", true},
		{"empty", "", false},
		{"single value", "40.71", false},
		{"three values", "1,2,3", false},
		{"missing lat", ",-74.01", false},
		{"missing lng", "40.71,", false},
		{"not numbers", "abc,def", false},
		{"one not number", "40.71,special", false},
		{"nan", "NaN,10", false},
		{"inf", "10,Inf", false},
		{"lat too high", "90.1,0", false},
		{"lat too low", "-91,0", false},
		{"lng too high", "0,180.5", false},
		{"lng too low", "0,-181", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidLocation(tc.input); got != tc.expects {
				t.Fatalf("IsValidLocation(%q) = %v; want %v", tc.input, got, tc.expects)
			}
		})
	}
}

func TestCreateLocationBuffer(t *testing.T) {
	buf, ok := CreateLocationBuffer("40,-74", 69)
	if !ok {
		t.Fatal("expected buffer for valid location")
	}

	if math.Abs(buf.Low.Latitude-39) > 1e-9 || math.Abs(buf.High.Latitude-41) > 1e-9 {
		t.Errorf("latitude bounds = [%f, %f]; want [39, 41]", buf.Low.Latitude, buf.High.Latitude)
	}

	wantLng := 1 / math.Cos(40*math.Pi/180)
	if math.Abs(buf.High.Longitude-(-74+wantLng)) > 1e-9 || math.Abs(buf.Low.Longitude-(-74-wantLng)) > 1e-9 {
		t.Errorf("longitude bounds = [%f, %f]; want ±%f around -74", buf.Low.Longitude, buf.High.Longitude, wantLng)
	}

	if buf.Low.Latitude > buf.High.Latitude || buf.Low.Longitude > buf.High.Longitude {
		t.Errorf("low corner %+v is above high corner %+v", buf.Low, buf.High)
	}
}

func TestCreateLocationBufferAgreesWithValidator(t *testing.T) {
	inputs := []string{"40.71,-74.01", "", "abc,def", "40.71", "91,0", "12.5,100.25", "40.71,special"}

	for _, in := range inputs {
		_, ok := CreateLocationBuffer(in, 5)
		if ok != IsValidLocation(in) {
			t.Errorf("CreateLocationBuffer(%q) ok = %v; IsValidLocation = %v", in, ok, IsValidLocation(in))
		}
	}
}

func TestCreateLocationBufferZeroRadius(t *testing.T) {
	for _, radius := range []float64{0, -3, math.NaN()} {
		buf, ok := CreateLocationBuffer("10,20", radius)
		if !ok {
			t.Fatalf("radius %v: expected buffer", radius)
		}
		if buf.Low != buf.High {
			t.Errorf("radius %v: expected degenerate rectangle, got %+v", radius, buf)
		}
	}
}

func TestRoundLocation(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		precision int
		expected  string
		ok        bool
	}{
		{"two decimals", "40.712776,-74.005974", 2, "40.71,-74.01", true},
		{"pads decimals", "1,2", 2, "1.00,2.00", true},
		{"negative precision", "40.7,-74.2", -1, "41,-74", true},
		{"invalid", "abc,def", 2, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := RoundLocation(tc.input, tc.precision)
			if got != tc.expected || ok != tc.ok {
				t.Fatalf("RoundLocation(%q, %d) = %q, %v; want %q, %v", tc.input, tc.precision, got, ok, tc.expected, tc.ok)
			}
		})
	}
}

// Rectangles are not wrapped or clamped near the poles or the anti-meridian.
func TestCreateLocationBufferDoesNotWrap(t *testing.T) {
	for _, loc := range []string{"90,0", "-90,0"} {
		t.Run(loc, func(t *testing.T) {
			buf, ok := CreateLocationBuffer(loc, 1)
			if !ok {
				t.Fatal("expected a buffer for a valid pole location")
			}

			lngDelta := buf.High.Longitude
			if math.IsNaN(lngDelta) || math.IsInf(lngDelta, 0) {
				t.Fatalf("longitude delta = %v, want finite", lngDelta)
			}
			if lngDelta < 1e10 {
				t.Errorf("longitude delta = %v, want the unclamped cos(90°) blowup", lngDelta)
			}
			if buf.Low.Longitude != -lngDelta {
				t.Errorf("low longitude = %v, want %v", buf.Low.Longitude, -lngDelta)
			}
			if math.Abs(buf.High.Latitude) <= 90 && math.Abs(buf.Low.Latitude) <= 90 {
				t.Errorf("expected one latitude edge beyond the pole, got %+v", buf)
			}
		})
	}

	buf, ok := CreateLocationBuffer("0,179.99", 69)
	if !ok {
		t.Fatal("expected a buffer")
	}
	if buf.High.Longitude <= 180 {
		t.Errorf("high longitude = %v, want unwrapped value past 180", buf.High.Longitude)
	}
}
