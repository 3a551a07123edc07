package domain

import (
	"runtime"
	"strings"
)

// CoreType selects which core variant the service launches.
type CoreType string

// Supported core variants.
const (
	CoreClash        CoreType = "clash"
	CoreMihomo       CoreType = "mihomo"
	CoreMihomoAlpha  CoreType = "mihomo-alpha"
	CoreClashRs      CoreType = "clash-rs"
	CoreClashRsAlpha CoreType = "clash-rs-alpha"
)

// CoreTypes lists every supported variant in display order.
var CoreTypes = []CoreType{
	CoreClash,
	CoreMihomo,
	CoreMihomoAlpha,
	CoreClashRs,
	CoreClashRsAlpha,
}

// ParseCoreType converts a selector string into a CoreType.
// Matching is case-insensitive and surrounding whitespace is ignored.
func ParseCoreType(s string) (CoreType, error) {
	v := CoreType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range CoreTypes {
		if t == v {
			return t, nil
		}
	}
	return "", ErrUnknownCoreType.WithDetails(s)
}

// String implements fmt.Stringer.
func (t CoreType) String() string {
	return string(t)
}

// IsRust reports whether the variant belongs to the clash-rs family, which
// takes its configuration through -c instead of -f.
func (t CoreType) IsRust() bool {
	return t == CoreClashRs || t == CoreClashRsAlpha
}

// ExecutableName returns the default executable file name for the variant.
func (t CoreType) ExecutableName() string {
	if runtime.GOOS == "windows" {
		return string(t) + ".exe"
	}
	return string(t)
}

// Args builds the command line for launching the variant.
func (t CoreType) Args(workDir, configFile string) []string {
	if t.IsRust() {
		return []string{"-d", workDir, "-c", configFile}
	}
	return []string{"-d", workDir, "-f", configFile}
}
