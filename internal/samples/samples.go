// Package samples holds named sample configurations used by mixinctl and by
// tests to exercise the engine end to end.
package samples

import (
	"fmt"
	"sort"

	"github.com/conduit-lang/mixins/pkg/mixins"
	"github.com/conduit-lang/mixins/pkg/model"
	"github.com/conduit-lang/mixins/pkg/suppression"
	"github.com/conduit-lang/mixins/pkg/types"
)

// Scenario is a named set of declarations and the target type whose
// resolved context it demonstrates.
type Scenario struct {
	Name        string
	Description string
	Target      types.TypeID
	// Parent, when set, declares a configuration the scenario builds on
	Parent func(b *mixins.MixinConfigurationBuilder)
	// Declare adds the scenario's own declarations
	Declare func(b *mixins.MixinConfigurationBuilder)
}

// Registry returns the type metadata shared by all scenarios
func Registry() *types.Registry {
	reg := types.NewRegistry()
	records := []types.Type{
		{ID: "Base", Interfaces: []types.TypeID{"IEntity"}},
		{ID: "Derived", Base: "Base"},
		{ID: "MoreDerived", Base: "Derived"},
		{ID: "Widget", Base: "Base"},
		{ID: "IEntity", Interface: true},
		{ID: "IAuditable", Interface: true},
		{ID: "Logging"},
		{ID: "FileLogging", Base: "Logging"},
		{ID: "Auditing"},
		{ID: "Validation"},
		{ID: "Caching"},
		{ID: "V1Behavior"},
		{ID: "V2Behavior"},
		{ID: "List[]"},
		{ID: "List[int]"},
		{ID: "Counting"},
		{ID: "Pipeline"},
		{ID: "Cyclic"},
	}
	if err := reg.DefineAll(records...); err != nil {
		panic(fmt.Sprintf("samples: invalid registry: %v", err))
	}
	return reg
}

var scenarios = []Scenario{
	{
		Name:        "inheritance",
		Description: "Derived inherits Logging from Base and adds Auditing after it",
		Target:      "Derived",
		Declare: func(b *mixins.MixinConfigurationBuilder) {
			b.ForClass("Base").AddMixin("Logging")
			b.ForClass("Derived").AddMixin("Auditing").WithDependency("Logging")
		},
	},
	{
		Name:        "replacement",
		Description: "Widget replaces the inherited V1Behavior with V2Behavior",
		Target:      "Widget",
		Declare: func(b *mixins.MixinConfigurationBuilder) {
			b.ForClass("Base").AddMixin("V1Behavior")
			b.ForClass("Widget").AddMixin("V2Behavior").ReplaceMixin("V1Behavior")
		},
	},
	{
		Name:        "replacement-missing",
		Description: "a replacement rule without its replacement keeps V1Behavior",
		Target:      "Widget",
		Declare: func(b *mixins.MixinConfigurationBuilder) {
			b.ForClass("Base").AddMixin("V1Behavior")
			b.ForClass("Widget").SuppressMixin(suppression.NewReplacementRule("V1Behavior", "V2Behavior"))
		},
	},
	{
		Name:        "override",
		Description: "a local FileLogging overrides the inherited Logging",
		Target:      "Derived",
		Declare: func(b *mixins.MixinConfigurationBuilder) {
			b.ForClass("Base").AddMixins("Logging", "Caching")
			b.ForClass("Derived").AddMixin("FileLogging").OfKind(model.MixinKindUsed)
		},
	},
	{
		Name:        "closed-generic",
		Description: "List[int] inherits the mixins declared on the List[] definition",
		Target:      "List[int]",
		Declare: func(b *mixins.MixinConfigurationBuilder) {
			b.ForClass("List[]").
				AddMixin("Counting").
				WithIntroducedMemberVisibility(model.VisibilityPublic).
				Class().
				AddComposedInterface("ICountable")
		},
	},
	{
		Name:        "ordering",
		Description: "AddOrderedMixins chains each mixin after the previous one",
		Target:      "Pipeline",
		Declare: func(b *mixins.MixinConfigurationBuilder) {
			b.ForClass("Pipeline").
				AddMixin("Caching").
				Class().
				AddOrderedMixins("Validation", "Auditing", "Logging")
		},
	},
	{
		Name:        "layered",
		Description: "a child configuration extends Base on top of a parent configuration",
		Target:      "MoreDerived",
		Parent: func(b *mixins.MixinConfigurationBuilder) {
			b.ForClass("Base").AddMixin("Logging").Class().AddComposedInterface("IEntity")
		},
		Declare: func(b *mixins.MixinConfigurationBuilder) {
			b.ForClass("Derived").AddMixin("Auditing").WithDependency("Logging").
				Class().AddComposedInterface("IAuditable")
		},
	},
	{
		Name:        "cycle",
		Description: "mutually dependent mixins fail to build",
		Target:      "Cyclic",
		Declare: func(b *mixins.MixinConfigurationBuilder) {
			b.ForClass("Cyclic").
				AddMixin("Validation").WithDependency("Caching").
				AddMixin("Caching").WithDependency("Auditing").
				AddMixin("Auditing").WithDependency("Validation")
		},
	},
}

// All returns every scenario sorted by name
func All() []Scenario {
	result := append([]Scenario(nil), scenarios...)
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Names returns the scenario names, sorted
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the scenario called name
func Lookup(name string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Build builds the scenario's configuration over the sample registry
func (s Scenario) Build(opts ...mixins.Option) (*mixins.MixinConfiguration, error) {
	opts = append([]mixins.Option{mixins.WithProvider(Registry())}, opts...)

	var parent *mixins.MixinConfiguration
	if s.Parent != nil {
		pb := mixins.NewMixinConfigurationBuilder(nil, opts...)
		s.Parent(pb)
		var err error
		if parent, err = pb.BuildConfiguration(); err != nil {
			return nil, err
		}
	}

	b := mixins.NewMixinConfigurationBuilder(parent, opts...)
	if s.Declare != nil {
		s.Declare(b)
	}
	return b.BuildConfiguration()
}

// Resolve builds the scenario and resolves its target type
func (s Scenario) Resolve(opts ...mixins.Option) (*model.ClassContext, error) {
	cfg, err := s.Build(opts...)
	if err != nil {
		return nil, err
	}
	ctx, err := cfg.Resolve(s.Target)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		return model.Empty(s.Target), nil
	}
	return ctx, nil
}
