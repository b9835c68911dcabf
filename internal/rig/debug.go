package rig

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

var spewConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump writes the hierarchy, one joint per line, indented by depth.
func (r *Rig) Dump(w io.Writer) error {
	names := r.named.Names()
	depth := make(map[JointID]int)
	for j := range r.joints.Hierarchy(r.root) {
		d := 0
		if j.parent != NoJoint {
			d = depth[j.parent] + 1
		}
		depth[j.id] = d

		label := names[j.id]
		if label == "" {
			label = fmt.Sprintf("#%d", j.id)
		}
		if _, err := fmt.Fprintf(w, "%s%s local=%v\n", strings.Repeat("  ", d), label, j.local); err != nil {
			return err
		}
	}
	return nil
}

type jointState struct {
	ID       JointID
	Name     string
	Parent   JointID
	Children []JointID
	Local    [16]float64
	Global   [16]float64
}

// Sdump returns a spew dump of every joint's state for debug logs.
func (r *Rig) Sdump() string {
	names := r.named.Names()
	var states []jointState
	for j := range r.joints.Hierarchy(r.root) {
		states = append(states, jointState{
			ID:       j.id,
			Name:     names[j.id],
			Parent:   j.parent,
			Children: j.Children(),
			Local:    j.local,
			Global:   j.global,
		})
	}
	return spewConfig.Sdump(states)
}
