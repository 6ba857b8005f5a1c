package gridvm

// Score carries the three raw counters the VM exposes. The VM itself never
// combines them (§6: "the VM exposes the three counters and does not
// compute the score itself") — Total is a convenience for callers that do,
// such as cmd/gridvm-driver and the tests here.
type Score struct {
	Cycles    uint64
	Msgs      uint64
	NodesUsed uint32
}

// Total computes the external scoring formula: cycles + 5*nodes_used +
// msgs/4. Division is integer division, matching the field-element-free
// counters the formula is defined over.
func (s Score) Total() uint64 {
	return s.Cycles + 5*uint64(s.NodesUsed) + s.Msgs/4
}
