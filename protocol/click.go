package protocol

// Click is a click event fed by the bar back into stdin. Instance carries
// the target block's identity token and is the routing key.
type Click struct {
	Name      string   `json:"name"`
	Instance  string   `json:"instance"`
	Button    int      `json:"button"`
	X         int      `json:"x"`
	Y         int      `json:"y"`
	RelativeX int      `json:"relative_x"`
	RelativeY int      `json:"relative_y"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Modifiers []string `json:"modifiers"`
}

// X11 mouse button codes as reported in Click.Button.
const (
	ButtonLeft = 1 + iota
	ButtonMiddle
	ButtonRight
	ButtonScrollUp
	ButtonScrollDown
)

// Modifier key names as reported in Click.Modifiers.
const (
	ModifierShift    = "Shift"
	ModifierControl  = "Control"
	ModifierAlt      = "Mod1"
	ModifierSuper    = "Mod4"
	ModifierCapsLock = "Lock"
)
