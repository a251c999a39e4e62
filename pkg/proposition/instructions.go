package proposition

import (
	"fmt"
	"strings"
)

func labels(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = label(id)
	}
	return strings.Join(out, ", ")
}

// Instructions renders each step of d as a sentence for the student, in
// step order.
func Instructions(d *Def, lib Library) []string {
	intro := Introduced(d, lib)
	out := make([]string, len(d.Steps))
	for i, st := range d.Steps {
		var text string
		switch a := st.Action.(type) {
		case DrawCircle:
			text = fmt.Sprintf("Draw the circle with centre %s through %s", label(a.CenterID), label(a.RadiusPointID))
		case DrawSegment:
			text = fmt.Sprintf("Join %s%s", label(a.FromID), label(a.ToID))
		case MarkIntersection:
			text = fmt.Sprintf("Mark %s where %s meets %s", labels(intro[i]), a.A, a.B)
			if a.BeyondID != "" {
				text += fmt.Sprintf(", beyond %s", label(a.BeyondID))
			}
		case ApplyMacro:
			text = fmt.Sprintf("Apply Prop. %s to %s", a.PropID, labels(a.Inputs))
			if len(intro[i]) > 0 {
				text += fmt.Sprintf(" to obtain %s", labels(intro[i]))
			}
		case PlacePoint:
			text = fmt.Sprintf("Place %s anywhere", labels(intro[i]))
		default:
			text = "Unknown step"
		}
		if st.Citation != "" {
			text += fmt.Sprintf(" (%s)", st.Citation)
		}
		out[i] = text
	}
	return out
}
