package inheritance

import (
	"github.com/conduit-lang/mixins/pkg/model"
	"github.com/conduit-lang/mixins/pkg/ordering"
	"github.com/conduit-lang/mixins/pkg/types"
)

// Inherited is the union of several ancestor contexts applied to one target
type Inherited struct {
	// Mixins are retargeted to the inheriting type and keep ancestor order
	Mixins     []*model.MixinContext
	Interfaces []types.TypeID
}

// MixinTypes returns the inherited mixin types, in order
func (in Inherited) MixinTypes() []types.TypeID {
	ids := make([]types.TypeID, len(in.Mixins))
	for i, m := range in.Mixins {
		ids[i] = m.MixinType()
	}
	return ids
}

// Unite combines ancestor contexts for target. A mixin type contributed by
// an earlier ancestor is not taken again from a later one.
func Unite(target types.TypeID, ancestors ...*model.ClassContext) Inherited {
	var in Inherited
	seenMixins := make(map[types.TypeID]bool)
	seenIfaces := make(map[types.TypeID]bool)

	for _, ctx := range ancestors {
		if ctx == nil {
			continue
		}
		for _, m := range ctx.Mixins() {
			if seenMixins[m.MixinType()] {
				continue
			}
			seenMixins[m.MixinType()] = true
			in.Mixins = append(in.Mixins, m.ForTarget(target))
		}
		for _, iface := range ctx.ComposedInterfaces() {
			if seenIfaces[iface] {
				continue
			}
			seenIfaces[iface] = true
			in.Interfaces = append(in.Interfaces, iface)
		}
	}
	return in
}

// Combine builds the context of a target that declares nothing itself
func Combine(target types.TypeID, ancestors ...*model.ClassContext) (*model.ClassContext, error) {
	in := Unite(target, ancestors...)
	sorted, err := ordering.Sort(target, in.Mixins)
	if err != nil {
		return nil, err
	}
	return model.NewClassContext(target, sorted, in.Interfaces)
}
