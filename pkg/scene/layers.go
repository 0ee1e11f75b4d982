package scene

import (
	"fmt"
	"math/bits"

	"gopkg.in/yaml.v3"
)

// LayerCount is the number of scene layers.
const LayerCount = 20

// LayerMask is a set of layers. Bit i is the layer with index i (0-based).
// In manifests and graph documents layers are written with their 1-based number.
type LayerMask uint32

const allLayers LayerMask = 1<<LayerCount - 1

// LayerBit returns the mask holding only the layer with index i.
func LayerBit(i int) LayerMask {
	if i < 0 || i >= LayerCount {
		return 0
	}
	return 1 << uint(i)
}

// Layers builds a mask from 1-based layer numbers. Numbers out of range are ignored.
func Layers(numbers ...int) LayerMask {
	var m LayerMask
	for _, n := range numbers {
		m |= LayerBit(n - 1)
	}
	return m
}

// LayerBits packs a boolean layer vector into a mask.
func LayerBits(flags [LayerCount]bool) LayerMask {
	var m LayerMask
	for i, on := range flags {
		if on {
			m |= LayerBit(i)
		}
	}
	return m
}

// Bools unpacks the mask into a boolean layer vector.
func (m LayerMask) Bools() [LayerCount]bool {
	var flags [LayerCount]bool
	for i := range flags {
		flags[i] = m.Has(i)
	}
	return flags
}

// Has reports whether the layer with index i is in the mask.
func (m LayerMask) Has(i int) bool {
	return m&LayerBit(i) != 0
}

// Intersects reports whether the masks share a layer.
func (m LayerMask) Intersects(o LayerMask) bool {
	return m&o != 0
}

// Contains reports whether every layer of o is in m.
func (m LayerMask) Contains(o LayerMask) bool {
	return m&o == o
}

// Empty reports whether no layer is selected.
func (m LayerMask) Empty() bool {
	return m&allLayers == 0
}

// Count is the number of selected layers.
func (m LayerMask) Count() int {
	return bits.OnesCount32(uint32(m & allLayers))
}

// Indexes lists the 0-based indexes of the selected layers in ascending order.
func (m LayerMask) Indexes() []int {
	var out []int
	for i := 0; i < LayerCount; i++ {
		if m.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// Numbers lists the 1-based numbers of the selected layers in ascending order.
func (m LayerMask) Numbers() []int {
	idx := m.Indexes()
	for i := range idx {
		idx[i]++
	}
	return idx
}

func (m LayerMask) String() string {
	return fmt.Sprint(m.Numbers())
}

// MarshalYAML writes the mask as a list of layer numbers.
func (m LayerMask) MarshalYAML() (any, error) {
	n := m.Numbers()
	if n == nil {
		n = []int{}
	}
	return n, nil
}

// UnmarshalYAML accepts a list of layer numbers or a single number.
func (m *LayerMask) UnmarshalYAML(node *yaml.Node) error {
	var numbers []int
	switch node.Kind {
	case yaml.ScalarNode:
		var n int
		if err := node.Decode(&n); err != nil {
			return err
		}
		numbers = []int{n}
	default:
		if err := node.Decode(&numbers); err != nil {
			return err
		}
	}
	for _, n := range numbers {
		if n < 1 || n > LayerCount {
			return fmt.Errorf("layer %d out of range 1..%d", n, LayerCount)
		}
	}
	*m = Layers(numbers...)
	return nil
}
