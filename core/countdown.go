package core

import "time"

// LaunchWindow is how long the launch phase lasts after the unlock time.
const LaunchWindow = 24 * time.Hour

// Phase of the pre-registration campaign.
type Phase string

const (
	PhasePreregistration Phase = "preregistration"
	PhaseLaunch          Phase = "launch"
	PhaseLaunched        Phase = "launched"
)

// Countdown is the phase and the time left in it. Remaining is nil while no
// withdrawal is configured.
type Countdown struct {
	Phase     Phase          `json:"phase"`
	Remaining *time.Duration `json:"remaining,omitempty"`
	EndsAt    *time.Time     `json:"ends_at,omitempty"`
}

// DeriveCountdown computes the campaign phase from the withdrawal timelock.
func DeriveCountdown(now time.Time, cfg WithdrawalConfig, window time.Duration) Countdown {
	if !cfg.IsConfigured || cfg.UnlockTimestamp == 0 {
		return Countdown{Phase: PhasePreregistration}
	}
	unlock := time.Unix(cfg.UnlockTimestamp, 0)
	launchEnd := unlock.Add(window)

	var c Countdown
	var end time.Time
	switch {
	case now.Before(unlock):
		c.Phase, end = PhasePreregistration, unlock
	case now.Before(launchEnd):
		c.Phase, end = PhaseLaunch, launchEnd
	default:
		c.Phase, end = PhaseLaunched, launchEnd
	}
	remaining := end.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	c.Remaining = &remaining
	c.EndsAt = &end
	return c
}
