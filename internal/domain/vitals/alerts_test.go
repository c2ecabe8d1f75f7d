package vitals

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func metricFor(metricType, value string) *Metric {
	return &Metric{
		ID:        uuid.New(),
		SubjectID: uuid.New(),
		Type:      metricType,
		Value:     value,
		Unit:      "bpm",
	}
}

func bpMetric(sys, dia int) *Metric {
	m := metricFor(TypeBloodPressure, "")
	m.Unit = "mmHg"
	m.Systolic = &sys
	m.Diastolic = &dia
	return m
}

func TestDeriveAlerts_HighHeartRate(t *testing.T) {
	alerts := DeriveAlerts(metricFor(TypeHeartRate, "130"))
	if len(alerts) != 1 {
		t.Fatalf("expected exactly 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Kind != KindHighHR {
		t.Errorf("expected kind %s, got %s", KindHighHR, a.Kind)
	}
	if a.Priority != PriorityHigh {
		t.Errorf("expected priority high, got %s", a.Priority)
	}
	if !strings.Contains(a.Message, "130") {
		t.Errorf("expected message to contain the value, got %q", a.Message)
	}
}

func TestDeriveAlerts_ModeratelyHighHeartRate(t *testing.T) {
	alerts := DeriveAlerts(metricFor(TypeHeartRate, "110"))
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Priority != PriorityMedium {
		t.Errorf("expected priority medium, got %s", alerts[0].Priority)
	}
}

func TestDeriveAlerts_LowHeartRate(t *testing.T) {
	tests := []struct {
		value        string
		wantPriority string
	}{
		{"55", PriorityMedium},
		{"35", PriorityHigh},
	}
	for _, tt := range tests {
		alerts := DeriveAlerts(metricFor(TypeHeartRate, tt.value))
		if len(alerts) != 1 {
			t.Fatalf("hr=%s: expected 1 alert, got %d", tt.value, len(alerts))
		}
		if alerts[0].Kind != KindLowHR {
			t.Errorf("hr=%s: expected kind low_hr, got %s", tt.value, alerts[0].Kind)
		}
		if alerts[0].Priority != tt.wantPriority {
			t.Errorf("hr=%s: expected priority %s, got %s", tt.value, tt.wantPriority, alerts[0].Priority)
		}
	}
}

func TestDeriveAlerts_NormalHeartRateYieldsNone(t *testing.T) {
	if alerts := DeriveAlerts(metricFor(TypeHeartRate, "75")); len(alerts) != 0 {
		t.Errorf("expected no alerts for hr=75, got %d", len(alerts))
	}
}

func TestDeriveAlerts_HighBloodPressureCritical(t *testing.T) {
	alerts := DeriveAlerts(bpMetric(165, 105))
	if len(alerts) != 1 {
		t.Fatalf("expected exactly 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Kind != KindHighBP {
		t.Errorf("expected kind high_bp, got %s", a.Kind)
	}
	if a.Priority != PriorityCritical {
		t.Errorf("expected priority critical, got %s", a.Priority)
	}
	if !strings.Contains(a.Message, "165/105") {
		t.Errorf("expected message to contain the reading, got %q", a.Message)
	}
}

func TestDeriveAlerts_HighBloodPressure(t *testing.T) {
	alerts := DeriveAlerts(bpMetric(145, 85))
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Priority != PriorityHigh {
		t.Errorf("expected priority high, got %s", alerts[0].Priority)
	}
}

func TestDeriveAlerts_LowBloodPressure(t *testing.T) {
	alerts := DeriveAlerts(bpMetric(88, 58))
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Kind != KindLowBP {
		t.Errorf("expected kind low_bp, got %s", alerts[0].Kind)
	}
	if alerts[0].Priority != PriorityMedium {
		t.Errorf("expected priority medium, got %s", alerts[0].Priority)
	}
}

func TestDeriveAlerts_NormalBloodPressureYieldsNone(t *testing.T) {
	if alerts := DeriveAlerts(bpMetric(120, 80)); len(alerts) != 0 {
		t.Errorf("expected no alerts for 120/80, got %d", len(alerts))
	}
}

func TestDeriveAlerts_BloodSugar(t *testing.T) {
	tests := []struct {
		value        string
		wantKind     string
		wantPriority string
	}{
		{"260", KindHighSugar, PriorityCritical},
		{"200", KindHighSugar, PriorityHigh},
		{"65", KindLowSugar, PriorityHigh},
		{"50", KindLowSugar, PriorityCritical},
	}
	for _, tt := range tests {
		m := metricFor(TypeBloodSugar, tt.value)
		m.Unit = "mg/dL"
		alerts := DeriveAlerts(m)
		if len(alerts) != 1 {
			t.Fatalf("sugar=%s: expected 1 alert, got %d", tt.value, len(alerts))
		}
		if alerts[0].Kind != tt.wantKind {
			t.Errorf("sugar=%s: expected kind %s, got %s", tt.value, tt.wantKind, alerts[0].Kind)
		}
		if alerts[0].Priority != tt.wantPriority {
			t.Errorf("sugar=%s: expected priority %s, got %s", tt.value, tt.wantPriority, alerts[0].Priority)
		}
	}
}

func TestDeriveAlerts_InRangeSugarYieldsNone(t *testing.T) {
	if alerts := DeriveAlerts(metricFor(TypeBloodSugar, "95")); len(alerts) != 0 {
		t.Errorf("expected no alerts for sugar=95, got %d", len(alerts))
	}
}

func TestDeriveAlerts_OtherTypesYieldNone(t *testing.T) {
	for _, metricType := range []string{TypeWeight, TypeSteps, TypeSleep, TypeTemperature, TypeOxygenSaturation, TypeBMI} {
		if alerts := DeriveAlerts(metricFor(metricType, "999")); len(alerts) != 0 {
			t.Errorf("expected no alerts for type %s, got %d", metricType, len(alerts))
		}
	}
}

func TestDeriveAlerts_ReferencesSourceMetric(t *testing.T) {
	m := metricFor(TypeHeartRate, "140")
	alerts := DeriveAlerts(m)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].SourceMetricID == nil || *alerts[0].SourceMetricID != m.ID {
		t.Error("expected alert to reference the source metric id")
	}
	if alerts[0].SubjectID != m.SubjectID {
		t.Error("expected alert to carry the metric's subject id")
	}
}

func TestDeriveAlerts_UnparsableValueYieldsNone(t *testing.T) {
	if alerts := DeriveAlerts(metricFor(TypeHeartRate, "garbage")); len(alerts) != 0 {
		t.Errorf("expected no alerts for unparsable value, got %d", len(alerts))
	}
}
