package mpv

import (
	"errors"
	"strconv"
)

const (
	// AbsoluteValue makes seek interpret its target as a position from the start.
	AbsoluteValue = "absolute"
	// ExactValue makes seek land on the exact position instead of a keyframe.
	ExactValue = "exact"
	// NoValue is equivalent to false (where required by property).
	NoValue = "no"
	// RelativeValue makes seek interpret its target as an offset from the current position.
	RelativeValue = "relative"
	// ReplaceValue specifies loadfile command playback replacement.
	ReplaceValue = "replace"
	// YesValue is equivalent to true (where required by property).
	YesValue = "yes"
)

// ErrPropertyValueNotString occurs when an observed property payload does not
// carry the string representation requested by observe_property_string.
var ErrPropertyValueNotString = errors.New("property value is not a string")

// PropertyBool interprets an observed property payload as a boolean.
func PropertyBool(data interface{}) (bool, error) {
	str, ok := data.(string)
	if !ok {
		return false, ErrPropertyValueNotString
	}

	return str == YesValue, nil
}

// PropertyFloat interprets an observed property payload as a number. mpv sends
// an empty string while the property has no value (no file loaded), which is
// reported as a parse error for the caller to skip.
func PropertyFloat(data interface{}) (float64, error) {
	str, ok := data.(string)
	if !ok {
		return 0, ErrPropertyValueNotString
	}

	return strconv.ParseFloat(str, 64)
}
