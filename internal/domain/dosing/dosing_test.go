package dosing

import "testing"

func TestDoses_KnownValues(t *testing.T) {
	if got := EpinephrineArrest(4.5); got != 0.045 {
		t.Errorf("EpinephrineArrest(4.5) = %v, want 0.045", got)
	}
	if got := DefibrillationFirst(4.5); got != 9 {
		t.Errorf("DefibrillationFirst(4.5) = %v, want 9", got)
	}
	if got := Dexamethasone(20); got != 10 {
		t.Errorf("Dexamethasone(20) = %v, want 10 (capped)", got)
	}
	if got := NebEpinephrine(20); got != 5 {
		t.Errorf("NebEpinephrine(20) = %v, want 5 (capped)", got)
	}
	if got := FluidBolus(8); got != 80 {
		t.Errorf("FluidBolus(8) = %v, want 80", got)
	}
	if got := FluidSessionCap(8); got != 480 {
		t.Errorf("FluidSessionCap(8) = %v, want 480", got)
	}
	if got := Dextrose10(10); got != 20 {
		t.Errorf("Dextrose10(10) = %v, want 20", got)
	}
}

func TestDoses_NeverExceedCaps(t *testing.T) {
	weights := []float64{0, 0.5, 3, 4.5, 8, 12, 20, 36, 55, 80, 100, 250}
	for _, w := range weights {
		checks := []struct {
			name string
			got  float64
			cap  float64
		}{
			{"EpinephrineIM", EpinephrineIM(w), EpinephrineIMCapMG},
			{"EpinephrineArrest", EpinephrineArrest(w), EpinephrineArrestCapMG},
			{"Dexamethasone", Dexamethasone(w), DexamethasoneCapMG},
			{"NebEpinephrine", NebEpinephrine(w), NebEpinephrineCapML},
			{"Amiodarone", Amiodarone(w), AmiodaroneCapMG},
			{"Midazolam", Midazolam(w), MidazolamCapMG},
			{"DefibrillationFirst", DefibrillationFirst(w), DefibrillationCapJ},
			{"DefibrillationRepeat", DefibrillationRepeat(w), DefibrillationRepeatCapJ},
			{"FluidBolus", FluidBolus(w), FluidBolusCapML},
			{"Dextrose10", Dextrose10(w), DextroseCapML},
		}
		for _, c := range checks {
			if c.got > c.cap {
				t.Errorf("%s(%v) = %v exceeds cap %v", c.name, w, c.got, c.cap)
			}
			if c.got < 0 {
				t.Errorf("%s(%v) = %v is negative", c.name, w, c.got)
			}
		}

		lo, hi, esc := CardioversionRange(w)
		if lo > CardioversionCapJ || hi > CardioversionCapJ || esc > CardioversionCapJ {
			t.Errorf("CardioversionRange(%v) = %v/%v/%v exceeds cap %v", w, lo, hi, esc, CardioversionCapJ)
		}
		if lo > hi || hi > esc {
			t.Errorf("CardioversionRange(%v) not ordered: %v/%v/%v", w, lo, hi, esc)
		}
	}
}

func TestDefibrillation_EscalatesUnderCap(t *testing.T) {
	if first, repeat := DefibrillationFirst(20), DefibrillationRepeat(20); repeat <= first {
		t.Errorf("repeat energy %v should exceed first %v below cap", repeat, first)
	}
}
