package profile

import "strings"

// FormatDevice reduces a user agent to the label shown on the profile page.
// Checks run in order, so iPhone agents (which mention Mac OS X) read as
// MAC OS X and Android agents read as LINUX.
func FormatDevice(userAgent string) string {
	switch {
	case userAgent == "":
		return "Unknown"
	case strings.Contains(userAgent, "Windows NT 10.0"):
		return "WINDOWS NT 10.0; WIN64; X64"
	case strings.Contains(userAgent, "Mac OS X"):
		return "MAC OS X"
	case strings.Contains(userAgent, "Linux"):
		return "LINUX"
	case strings.Contains(userAgent, "Android"):
		return "ANDROID"
	case strings.Contains(userAgent, "iPhone"):
		return "IPHONE"
	default:
		return "Unknown Device"
	}
}
