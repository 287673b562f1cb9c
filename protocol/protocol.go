// Package protocol models the i3bar/swaybar wire protocol: the handshake
// header, per-block state records and click events, as described in
// https://i3wm.org/docs/i3bar-protocol.html.
package protocol

// Header is the first line written on stdout, advertising protocol
// capabilities to the bar.
type Header struct {
	Version     int  `json:"version"`
	StopSignal  int  `json:"stop_signal,omitempty"`
	ContSignal  int  `json:"cont_signal,omitempty"`
	ClickEvents bool `json:"click_events,omitempty"`
}

// Text alignment inside a block when min_width padding applies.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Markup modes for full_text.
const (
	MarkupNone  = "none"
	MarkupPango = "pango"
)

// State is one block's renderable record. FullText is the only required
// field; an empty FullText means the block is omitted from output. All other
// fields are optional and only serialized when set, so unset values never
// override the bar's own defaults. Numeric and boolean fields use pointers
// because zero and false are meaningful protocol values (e.g. a zero border
// width, separator disabled).
type State struct {
	Name                string `json:"name,omitempty"`
	Instance            string `json:"instance,omitempty"`
	FullText            string `json:"full_text"`
	ShortText           string `json:"short_text,omitempty"`
	Color               string `json:"color,omitempty"`
	Background          string `json:"background,omitempty"`
	Border              string `json:"border,omitempty"`
	BorderTop           *int   `json:"border_top,omitempty"`
	BorderRight         *int   `json:"border_right,omitempty"`
	BorderBottom        *int   `json:"border_bottom,omitempty"`
	BorderLeft          *int   `json:"border_left,omitempty"`
	MinWidth            *int   `json:"min_width,omitempty"`
	Align               string `json:"align,omitempty"`
	Urgent              *bool  `json:"urgent,omitempty"`
	Separator           *bool  `json:"separator,omitempty"`
	SeparatorBlockWidth *int   `json:"separator_block_width,omitempty"`
	Markup              string `json:"markup,omitempty"`
}

// Merge overlays cur onto def and returns the combined record. Set fields in
// cur win; unset fields fall back to def. FullText always comes from cur:
// a block that updates with an empty FullText is asking to disappear, not to
// fall back to its default text.
func Merge(def, cur State) State {
	out := def
	out.FullText = cur.FullText
	if cur.Name != "" {
		out.Name = cur.Name
	}
	if cur.Instance != "" {
		out.Instance = cur.Instance
	}
	if cur.ShortText != "" {
		out.ShortText = cur.ShortText
	}
	if cur.Color != "" {
		out.Color = cur.Color
	}
	if cur.Background != "" {
		out.Background = cur.Background
	}
	if cur.Border != "" {
		out.Border = cur.Border
	}
	if cur.BorderTop != nil {
		out.BorderTop = cur.BorderTop
	}
	if cur.BorderRight != nil {
		out.BorderRight = cur.BorderRight
	}
	if cur.BorderBottom != nil {
		out.BorderBottom = cur.BorderBottom
	}
	if cur.BorderLeft != nil {
		out.BorderLeft = cur.BorderLeft
	}
	if cur.MinWidth != nil {
		out.MinWidth = cur.MinWidth
	}
	if cur.Align != "" {
		out.Align = cur.Align
	}
	if cur.Urgent != nil {
		out.Urgent = cur.Urgent
	}
	if cur.Separator != nil {
		out.Separator = cur.Separator
	}
	if cur.SeparatorBlockWidth != nil {
		out.SeparatorBlockWidth = cur.SeparatorBlockWidth
	}
	if cur.Markup != "" {
		out.Markup = cur.Markup
	}
	return out
}

// Int returns a pointer to v, for the optional numeric State fields.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for the optional boolean State fields.
func Bool(v bool) *bool { return &v }
