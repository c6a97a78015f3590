package control

import "fmt"

// ThresholdVerdict is the outcome of checking rolling counters against the
// configured safety maxima.
type ThresholdVerdict struct {
	ShouldKill bool
	Reason     string
}

// CheckThresholds compares the rolling error and duplicate rates against the
// configured maxima. Below the minimum sample size it always returns a
// negative verdict; the error rate is checked first.
func (c *Controller) CheckThresholds(ingested, duplicates, errs uint64) ThresholdVerdict {
	total := ingested + duplicates + errs
	if total < c.cfg.MinSamples {
		return ThresholdVerdict{}
	}

	errorRate := float64(errs) / float64(total)
	if errorRate > c.cfg.MaxErrorRate {
		return ThresholdVerdict{
			ShouldKill: true,
			Reason: fmt.Sprintf("error rate %.4f exceeds maximum %.4f over %d samples",
				errorRate, c.cfg.MaxErrorRate, total),
		}
	}

	if ingested+duplicates > 0 {
		duplicateRate := float64(duplicates) / float64(ingested+duplicates)
		if duplicateRate > c.cfg.MaxDuplicateRate {
			return ThresholdVerdict{
				ShouldKill: true,
				Reason: fmt.Sprintf("duplicate rate %.4f exceeds maximum %.4f over %d samples",
					duplicateRate, c.cfg.MaxDuplicateRate, total),
			}
		}
	}

	return ThresholdVerdict{}
}
