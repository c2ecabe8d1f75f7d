package vitals

import "fmt"

// DeriveAlerts inspects a freshly persisted metric and returns zero or one
// alert drafts. It is pure: callers persist the result. Branches per metric
// type are mutually exclusive, so a metric never yields more than one alert.
func DeriveAlerts(m *Metric) []*Alert {
	switch m.Type {
	case TypeHeartRate:
		return heartRateAlerts(m)
	case TypeBloodPressure:
		return bloodPressureAlerts(m)
	case TypeBloodSugar:
		return bloodSugarAlerts(m)
	default:
		return nil
	}
}

func heartRateAlerts(m *Metric) []*Alert {
	v, ok := parseFloat(m.Value)
	if !ok {
		return nil
	}
	switch {
	case v > 100:
		priority := PriorityMedium
		if v > 120 {
			priority = PriorityHigh
		}
		return []*Alert{draft(m, KindHighHR, priority,
			"High Heart Rate",
			fmt.Sprintf("Heart rate of %s %s is above the normal range.", m.Value, m.Unit))}
	case v < 60:
		priority := PriorityMedium
		if v < 40 {
			priority = PriorityHigh
		}
		return []*Alert{draft(m, KindLowHR, priority,
			"Low Heart Rate",
			fmt.Sprintf("Heart rate of %s %s is below the normal range.", m.Value, m.Unit))}
	}
	return nil
}

func bloodPressureAlerts(m *Metric) []*Alert {
	if m.Systolic == nil || m.Diastolic == nil {
		return nil
	}
	sys, dia := *m.Systolic, *m.Diastolic
	switch {
	case sys >= 140 || dia >= 90:
		priority := PriorityHigh
		if sys >= 160 || dia >= 100 {
			priority = PriorityCritical
		}
		return []*Alert{draft(m, KindHighBP, priority,
			"High Blood Pressure",
			fmt.Sprintf("Blood pressure of %d/%d %s is above the normal range.", sys, dia, m.Unit))}
	case sys <= 90 || dia <= 60:
		return []*Alert{draft(m, KindLowBP, PriorityMedium,
			"Low Blood Pressure",
			fmt.Sprintf("Blood pressure of %d/%d %s is below the normal range.", sys, dia, m.Unit))}
	}
	return nil
}

func bloodSugarAlerts(m *Metric) []*Alert {
	v, ok := parseFloat(m.Value)
	if !ok {
		return nil
	}
	switch {
	case v > 180:
		priority := PriorityHigh
		if v > 250 {
			priority = PriorityCritical
		}
		return []*Alert{draft(m, KindHighSugar, priority,
			"High Blood Sugar",
			fmt.Sprintf("Blood sugar of %s %s is above the normal range.", m.Value, m.Unit))}
	case v < 70:
		priority := PriorityHigh
		if v < 54 {
			priority = PriorityCritical
		}
		return []*Alert{draft(m, KindLowSugar, priority,
			"Low Blood Sugar",
			fmt.Sprintf("Blood sugar of %s %s is below the normal range.", m.Value, m.Unit))}
	}
	return nil
}

func draft(m *Metric, kind, priority, title, message string) *Alert {
	metricID := m.ID
	return &Alert{
		SubjectID:      m.SubjectID,
		SourceMetricID: &metricID,
		Kind:           kind,
		Title:          title,
		Message:        message,
		Priority:       priority,
	}
}
