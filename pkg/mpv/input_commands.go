package mpv

const (
	loadfileCommand        = "loadfile"
	seekCommand            = "seek"
	setPropertyCommand     = "set_property"
	observePropertyCommand = "observe_property_string"
	stopCommand            = "stop"
)
