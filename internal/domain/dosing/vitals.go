package dosing

// VitalBand is one age bucket of the normal-range tables.
type VitalBand struct {
	MaxMonths int // exclusive upper bound; 0 means open-ended
	Low       float64
	High      float64
}

// Classification of a measured vital against its age band.
type Classification string

const (
	Below  Classification = "below"
	Normal Classification = "normal"
	Above  Classification = "above"
)

// Age-banded normal ranges: <12 months, 12–60 months, ≥60 months.
var (
	heartRateBands = []VitalBand{
		{MaxMonths: 12, Low: 100, High: 160},
		{MaxMonths: 60, Low: 90, High: 150},
		{MaxMonths: 0, Low: 70, High: 120},
	}
	respRateBands = []VitalBand{
		{MaxMonths: 12, Low: 30, High: 60},
		{MaxMonths: 60, Low: 24, High: 40},
		{MaxMonths: 0, Low: 16, High: 30},
	}
)

func bandFor(bands []VitalBand, ageMonths int) VitalBand {
	for _, b := range bands {
		if b.MaxMonths == 0 || ageMonths < b.MaxMonths {
			return b
		}
	}
	return bands[len(bands)-1]
}

// HeartRateRange returns the normal heart-rate range (bpm) for the given
// age in months.
func HeartRateRange(ageMonths int) (low, high float64) {
	b := bandFor(heartRateBands, ageMonths)
	return b.Low, b.High
}

// RespRateRange returns the normal respiratory-rate range (breaths/min)
// for the given age in months.
func RespRateRange(ageMonths int) (low, high float64) {
	b := bandFor(respRateBands, ageMonths)
	return b.Low, b.High
}

// ClassifyHeartRate places a measured heart rate against the age band.
func ClassifyHeartRate(value float64, ageMonths int) Classification {
	return classify(value, bandFor(heartRateBands, ageMonths))
}

// ClassifyRespRate places a measured respiratory rate against the age band.
func ClassifyRespRate(value float64, ageMonths int) Classification {
	return classify(value, bandFor(respRateBands, ageMonths))
}

func classify(value float64, b VitalBand) Classification {
	switch {
	case value < b.Low:
		return Below
	case value > b.High:
		return Above
	default:
		return Normal
	}
}
