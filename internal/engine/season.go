package engine

// IsDaylightPeriod reports whether the daylight-saving (MESZ) encoding is
// in effect for a calendar date under the Central-European rule. It is a
// fixed-cutoff approximation of the last-Sunday rule: March switches on
// day 31, October switches back after day 26. The cutoffs misclassify part
// of the last week of March and October in some years; they are kept as-is
// so output stays comparable with files produced by earlier versions of
// the tool.
func IsDaylightPeriod(month, day int) bool {
	switch {
	case month > 3 && month < 10:
		return true
	case month == 3:
		return day >= 31
	case month == 10:
		return day <= 26
	default:
		return false
	}
}
