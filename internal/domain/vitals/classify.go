package vitals

import (
	"strconv"
	"strings"
)

// Classify maps a metric value to its category. It is pure and total:
// unparsable input degrades to CategoryNormal rather than erroring. Blood
// pressure values are expected in "systolic/diastolic" form.
func Classify(metricType, value string) Category {
	switch metricType {
	case TypeHeartRate:
		v, ok := parseFloat(value)
		if !ok {
			return CategoryNormal
		}
		return ClassifyHeartRate(v)
	case TypeBloodPressure:
		sys, dia, ok := parseBloodPressure(value)
		if !ok {
			return CategoryNormal
		}
		return ClassifyBloodPressure(sys, dia)
	case TypeTemperature:
		v, ok := parseFloat(value)
		if !ok {
			return CategoryNormal
		}
		return ClassifyTemperature(v)
	case TypeBloodSugar:
		v, ok := parseFloat(value)
		if !ok {
			return CategoryNormal
		}
		return ClassifyBloodSugar(v)
	case TypeSteps:
		v, ok := parseFloat(value)
		if !ok {
			return CategoryNormal
		}
		return ClassifySteps(v)
	case TypeSleep:
		v, ok := parseFloat(value)
		if !ok {
			return CategoryNormal
		}
		return ClassifySleep(v)
	default:
		return CategoryNormal
	}
}

// ClassifyHeartRate categorizes a resting heart rate in bpm.
func ClassifyHeartRate(bpm float64) Category {
	switch {
	case bpm < 50 || bpm > 120:
		return CategoryCritical
	case bpm < 60:
		return CategoryLow
	case bpm > 100:
		return CategoryHigh
	default:
		return CategoryNormal
	}
}

// ClassifyBloodPressure categorizes a reading in mmHg.
func ClassifyBloodPressure(systolic, diastolic int) Category {
	switch {
	case systolic >= 180 || diastolic >= 120:
		return CategoryCritical
	case systolic < 90 || diastolic < 60:
		return CategoryCritical
	case systolic >= 140 || diastolic >= 90:
		return CategoryHigh
	case systolic >= 120 && systolic <= 129 && diastolic < 80:
		return CategoryHigh
	default:
		return CategoryNormal
	}
}

// ClassifyTemperature categorizes a body temperature in °C.
func ClassifyTemperature(celsius float64) Category {
	switch {
	case celsius < 35.0 || celsius > 38.0:
		return CategoryCritical
	case celsius < 36.0:
		return CategoryLow
	case celsius >= 37.3:
		return CategoryHigh
	default:
		return CategoryNormal
	}
}

// ClassifyBloodSugar categorizes a fasting glucose reading in mg/dL.
// Readings above the fasting range classify high; the critical band is the
// alert deriver's concern, not classification's.
func ClassifyBloodSugar(mgdl float64) Category {
	switch {
	case mgdl < 70:
		return CategoryLow
	case mgdl >= 100:
		return CategoryHigh
	default:
		return CategoryNormal
	}
}

// ClassifySteps categorizes a daily step count.
func ClassifySteps(steps float64) Category {
	switch {
	case steps < 5000:
		return CategoryLow
	case steps >= 10000:
		return CategoryGood
	default:
		return CategoryNormal
	}
}

// ClassifySleep categorizes nightly sleep duration in hours.
func ClassifySleep(hours float64) Category {
	switch {
	case hours < 5:
		return CategoryCritical
	case hours < 6:
		return CategoryLow
	case hours < 7:
		return CategoryNormal
	case hours <= 9:
		return CategoryGood
	default:
		return CategoryHigh
	}
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseBloodPressure(s string) (sys, dia int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	sys, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	dia, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return sys, dia, true
}
