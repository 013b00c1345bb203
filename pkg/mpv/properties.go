package mpv

const (
	// IdleActiveProperty informs whether mpv ran out of things to play.
	// With a single-entry internal playlist it doubles as an end-of-track signal.
	IdleActiveProperty = "idle-active"

	// PathProperty is used to inform about path (or URL) currently loaded by mpv.
	PathProperty = "path"

	// PauseProperty is used for pausing or unpausing playback.
	PauseProperty = "pause"

	// PausedForCacheProperty informs whether playback stalled waiting for the network cache.
	PausedForCacheProperty = "paused-for-cache"

	// PlaybackTimeProperty is used for reading and setting current time of playback in seconds.
	PlaybackTimeProperty = "playback-time"

	// VolumeProperty is used for reading and setting the output volume (0-100).
	VolumeProperty = "volume"
)

var (
	// ObservableProperties specifies collection of properties that can be observed by 'property-change' event.
	ObservableProperties = []string{
		IdleActiveProperty,
		PathProperty,
		PauseProperty,
		PausedForCacheProperty,
		PlaybackTimeProperty,
		VolumeProperty,
	}
)
