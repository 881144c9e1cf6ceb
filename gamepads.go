package gamepads

import "fmt"

// Properties holds information of a joystick device, read once when it is
// opened.
type Properties struct {
	Path          string
	Name          string
	ButtonMap     []int
	AxisMap       []int
	DriverVersion int32
	Buttons       int
	Axes          int
}

// AxisCount returns the number of axes a State for this device needs,
// clamped to [1, MaxAxes].
func (p Properties) AxisCount() int {
	switch {
	case p.Axes < 1:
		return 1
	case p.Axes > MaxAxes:
		return MaxAxes
	default:
		return p.Axes
	}
}

// DriverVersionString formats the driver version as major.minor.patch.
func (p Properties) DriverVersionString() string {
	v := uint32(p.DriverVersion)
	return fmt.Sprintf("%d.%d.%d", v>>16, (v>>8)&0xff, v&0xff)
}

func (p Properties) String() string {
	return fmt.Sprintf("%s {driver version: %s, number of axes: %d, number of buttons: %d}",
		p.Name, p.DriverVersionString(), p.Axes, p.Buttons)
}
