package pages

import "time"

// IsExpired is false for a nil expiry and otherwise true once now reaches it.
func IsExpired(expiresAt *time.Time, now time.Time) bool {
	if expiresAt == nil {
		return false
	}
	return !now.Before(*expiresAt)
}

// IsExpiringSoon reports whether expiresAt lies strictly within the default
// window ahead of now.
func IsExpiringSoon(expiresAt *time.Time, now time.Time) bool {
	return IsExpiringWithin(expiresAt, now, DefaultExpiringSoonWindow)
}

// IsExpiringWithin reports 0 < expiresAt-now < window.
func IsExpiringWithin(expiresAt *time.Time, now time.Time, window time.Duration) bool {
	if expiresAt == nil {
		return false
	}
	remaining := expiresAt.Sub(now)
	return remaining > 0 && remaining < window
}

// IsVisible is active && not expired && (no expiry || expiry in the future).
func IsVisible(page *Page, now time.Time) bool {
	if page == nil {
		return false
	}
	return page.Active && page.ExpiredAt == nil && !IsExpired(page.ExpiresAt, now)
}

// StateOf derives the lifecycle state. A reactivated page reports
// StateReactivated until it nears expiry again.
func StateOf(page *Page, now time.Time, window time.Duration) State {
	if page == nil || !IsVisible(page, now) {
		return StateExpired
	}
	if IsExpiringWithin(page.ExpiresAt, now, window) {
		return StateExpiringSoon
	}
	if page.ReactivatedAt != nil {
		return StateReactivated
	}
	return StateActive
}
