// Package assessment turns a rider's latest telemetry and a helmet photo into
// a violation verdict, and records the outcome as an instance and, when
// warranted, a challan.
package assessment

// Fixed thresholds and penalty amounts shared by every evaluation
const (
	// SpeedLimit is the highest speed that is not considered speeding
	SpeedLimit = 80.0
	// HelmetViolationAmount is charged when no helmet is detected
	HelmetViolationAmount = 500
	// SpeedViolationAmount is charged when the rider is over SpeedLimit
	SpeedViolationAmount = 1000
)

// Reasons listed on a challan
const (
	ReasonNoHelmet = "Riding without a helmet"
	ReasonSpeeding = "Speeding"
)

// Verdict is the outcome of applying the rules to one observation
type Verdict struct {
	HelmetDetected bool
	Speeding       bool
	Violation      bool
	Amount         int
	Reasons        []string
}

// Evaluate applies the helmet and speed rules
func Evaluate(helmetDetected bool, speed float64) Verdict {
	v := Verdict{
		HelmetDetected: helmetDetected,
		Speeding:       speed > SpeedLimit,
	}
	v.Violation = !v.HelmetDetected || v.Speeding
	v.Amount = FineAmount(v.HelmetDetected, v.Speeding)
	if !v.HelmetDetected {
		v.Reasons = append(v.Reasons, ReasonNoHelmet)
	}
	if v.Speeding {
		v.Reasons = append(v.Reasons, ReasonSpeeding)
	}
	return v
}

// FineAmount sums the penalty for each broken rule. Zero means no challan.
func FineAmount(helmetDetected, speeding bool) int {
	amount := 0
	if !helmetDetected {
		amount += HelmetViolationAmount
	}
	if speeding {
		amount += SpeedViolationAmount
	}
	return amount
}

// HelmetMessage is the human readable detection result
func HelmetMessage(helmetDetected bool) string {
	if helmetDetected {
		return "Helmet detected"
	}
	return "Helmet not detected"
}
