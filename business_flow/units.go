package businessflow

import "github.com/klb1963/yachtpricer/utils"

// metersToFeet is the conversion factor applied to vendor lengths below the
// ambiguity threshold.
const metersToFeet = 3.28084

// unitAmbiguityThresholdFt: vendor catalogues report hull length without a
// unit. No charter monohull or catamaran is 30 meters or shorter than 30
// feet in this market, so a value at or below 30 is read as meters.
const unitAmbiguityThresholdFt = 30.0

// NormalizeLengthFt converts a raw vendor length to feet. Values at or below
// 30 are treated as meters, converted and rounded to one decimal; values
// above 30 are already feet and pass through untouched.
func NormalizeLengthFt(raw float64) float64 {
	if raw <= unitAmbiguityThresholdFt {
		return utils.Round1(raw * metersToFeet)
	}
	return raw
}
