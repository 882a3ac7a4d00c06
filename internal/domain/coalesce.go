package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// IntOrDefault returns v when positive, otherwise fallback.
func IntOrDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

// MinPositive returns the smallest positive value in vals, or 0 when none is
// positive. Non-positive values mean "no limit".
func MinPositive(vals ...int) int {
	out := 0
	for _, v := range vals {
		if v > 0 && (out == 0 || v < out) {
			out = v
		}
	}
	return out
}
