package synth

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cozysynth/cozy/internal/builder"
	"github.com/cozysynth/cozy/internal/cost"
	"github.com/cozysynth/cozy/internal/example"
	"github.com/cozysynth/cozy/internal/expr"
	"github.com/cozysynth/cozy/internal/learner"
	"github.com/cozysynth/cozy/internal/types"
	"github.com/cozysynth/cozy/internal/value"
	"github.com/cozysynth/cozy/internal/verifier"
)

// TargetSpec names one expression to simplify: its free variables (by
// name and type), the expression itself (assembled in Go, since expr.Exp
// has no textual syntax of its own — spec.md's grammar is built in Go, not parsed
// from source, see SPEC_FULL.md's scope note on no parser), and the
// caller-supplied assumptions (spec.md §6) that condition every oracle
// call made while refining this target. Assumptions may be nil, meaning
// "no constraint beyond the target's own type".
type TargetSpec struct {
	Name        string
	Vars        []expr.Var
	Exp         expr.Exp
	Assumptions expr.Exp
}

// Job is one fully-configured synthesis run: one or more targets starting
// from a single example set, and the resolved Config. Multiple targets run
// round-robin (SPEC_FULL.md §4's high_level_interface.py supplement,
// grounded on original_source/cozy/synthesis/high_level_interface.py's
// SynthTask scheduling): each target's Driver grows its own copy of the
// example set, and RunRoundRobin copies a counter-example discovered while
// improving one target into every other target's copy, so it benefits
// their later turns too.
type Job struct {
	ID       string
	Config   Config
	Targets  []TargetSpec
	Examples example.Set
}

// NewJob assigns a fresh UUID-based ID, matching the teacher's use of
// google/uuid for anything needing a stable external identifier.
func NewJob(cfg Config, target TargetSpec, examples example.Set) Job {
	return NewMultiJob(cfg, []TargetSpec{target}, examples)
}

// NewMultiJob is NewJob generalized to several targets sharing one example
// set (see Job's round-robin doc comment).
func NewMultiJob(cfg Config, targets []TargetSpec, examples example.Set) Job {
	return Job{ID: uuid.NewString(), Config: cfg, Targets: targets, Examples: examples}
}

// Driver builds a learner.Driver for this job's first (or only) target —
// kept for the common single-target case and for callers (cmd/cozy) that
// only ever deal with one target at a time. Multi-target jobs should use
// Drivers and RunRoundRobin instead.
func (j Job) Driver() *learner.Driver {
	return j.driverFor(j.Targets[0], j.Examples)
}

// Drivers builds one learner.Driver per target, all sharing the job's
// starting example set at construction time (each Driver then grows its
// own copy independently as it finds counter-examples — RunRoundRobin is
// what folds a counter-example found under one target back into every
// other target's examples too).
func (j Job) Drivers() []*learner.Driver {
	drivers := make([]*learner.Driver, len(j.Targets))
	for i, t := range j.Targets {
		drivers[i] = j.driverFor(t, j.Examples)
	}
	return drivers
}

func (j Job) driverFor(target TargetSpec, examples example.Set) *learner.Driver {
	oracleCfg := verifier.DefaultConfig()
	if j.Config.OracleIntRadius != 0 {
		oracleCfg.IntRadius = j.Config.OracleIntRadius
	}
	if j.Config.OracleHandlePool != 0 {
		oracleCfg.HandlePoolSize = j.Config.OracleHandlePool
	}
	o := verifier.New(oracleCfg)
	model := cost.WeightedCostModel{FieldWeight: j.Config.FieldWeight}

	lambdas := &nestedLambdaSource{oracle: o, costModel: model}
	g := &builder.Grammar{Lambdas: lambdas}

	// illegalVars is computed once per target, before the search starts,
	// exactly as the original computes illegal_vars once in improve()
	// before constructing its Learner: free_vars(target) ∪
	// free_vars(assumptions), filtered down to the ones can_elim_var proves
	// irrelevant to the target's value.
	illegalVars := builder.IllegalVars(o, target.Exp, target.Assumptions)
	chain := builder.Chain(g,
		builder.CanonicalizeBinders,
		builder.SemanticFilter(o, target.Assumptions),
		builder.EliminateIrrelevantVars(o),
		builder.EliminateStateVars(illegalVars),
	)

	lcfg := learner.Config{
		CostModel:            model,
		CostCeiling:          j.Config.CostCeiling,
		HyperAggressiveEvict: j.Config.HyperAggressiveEvict,
	}

	seeds := baseSeeds(target.Vars)
	driver := learner.NewDriver(o, chain, lcfg, target.Exp, seeds, examples, target.Assumptions)
	lambdas.driver = driver
	return driver
}

// RunRoundRobin drives every target in turn (SPEC_FULL.md §4's multi-target
// supplement): each call to a Driver's Next that finds an improvement keeps
// that target's turn going; once a target reports no further improvement
// this pass, the scheduler moves to the next target. A counter-example any
// Driver discovers is folded into every other Driver's example set too
// (finished ones included), so no target has to rediscover a counter-example
// another target already paid to find. Returns the final expression for
// each target, in Targets order.
func RunRoundRobin(drivers []*learner.Driver) ([]expr.Exp, error) {
	onCounter := func(self *learner.Driver, others []*learner.Driver) func(example.Example) {
		return func(ex example.Example) {
			for _, d := range others {
				if d != self {
					d.AddExample(ex)
				}
			}
		}
	}
	for _, d := range drivers {
		dd := d
		dd.OnCounterExample = onCounter(dd, drivers)
	}

	done := make([]bool, len(drivers))
	remaining := len(drivers)
	for remaining > 0 {
		for i, d := range drivers {
			if done[i] {
				continue
			}
			improved, err := d.Next()
			for improved {
				improved, err = d.Next()
			}
			var noMore *learner.NoMoreImprovements
			if err == nil || errors.As(err, &noMore) {
				done[i] = true
				remaining--
				continue
			}
			return nil, err
		}
	}

	out := make([]expr.Exp, len(drivers))
	for i, d := range drivers {
		out[i] = d.Target()
	}
	return out, nil
}

func baseSeeds(vars []expr.Var) []expr.Exp {
	seeds := make([]expr.Exp, 0, len(vars)+4)
	for _, v := range vars {
		vv := v
		seeds = append(seeds, &expr.VarRef{V: vv})
	}
	for _, n := range []int64{0, 1} {
		seeds = append(seeds, &expr.Lit{Val: value.Int(n)})
	}
	seeds = append(seeds, &expr.Lit{Val: value.Bool(true)}, &expr.Lit{Val: value.Bool(false)})
	return seeds
}

// scenarioFile is the on-disk YAML shape a cmd/cozy scenario file is
// parsed into: variable declarations and concrete example bindings. The
// target expression itself is still assembled in Go (see TargetSpec) —
// only the variable environment and examples are data-driven.
type scenarioFile struct {
	Config   Config                       `yaml:"config"`
	Vars     map[string]string            `yaml:"vars"`
	Examples []map[string]yamlValue       `yaml:"examples"`
}

type yamlValue struct {
	Int  *int64 `yaml:"int"`
	Bool *bool  `yaml:"bool"`
}

// LoadScenario reads a YAML scenario file describing a variable
// environment and concrete examples, resolving the declared variable
// types against the closed type lattice's primitive names ("int", "bool").
func LoadScenario(path string) (vars []expr.Var, examples example.Set, cfg Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, example.Set{}, Config{}, fmt.Errorf("synth: read scenario %s: %w", path, err)
	}
	var sf scenarioFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, example.Set{}, Config{}, fmt.Errorf("synth: parse scenario %s: %w", path, err)
	}
	cfg = DefaultConfig()
	if (sf.Config != Config{}) {
		cfg = sf.Config
	}

	varTypes := make(map[string]types.Type, len(sf.Vars))
	for name, typName := range sf.Vars {
		t, err := resolveTypeName(typName)
		if err != nil {
			return nil, example.Set{}, Config{}, fmt.Errorf("synth: variable %s: %w", name, err)
		}
		varTypes[name] = t
		vars = append(vars, expr.Var{Name: name, Typ: t})
	}

	var exSet example.Set
	for _, raw := range sf.Examples {
		ex := example.Example{}
		for name, yv := range raw {
			t, ok := varTypes[name]
			if !ok {
				return nil, example.Set{}, Config{}, fmt.Errorf("synth: example binds undeclared variable %q", name)
			}
			v, err := yv.toValue(t)
			if err != nil {
				return nil, example.Set{}, Config{}, err
			}
			ex[name] = v
		}
		exSet = exSet.Append(ex)
	}
	return vars, exSet, cfg, nil
}

func resolveTypeName(name string) (types.Type, error) {
	switch name {
	case "int":
		return types.Int{}, nil
	case "bool":
		return types.Bool{}, nil
	default:
		return nil, fmt.Errorf("unsupported scenario variable type %q", name)
	}
}

func (yv yamlValue) toValue(t types.Type) (value.Value, error) {
	switch t.(type) {
	case types.Int:
		if yv.Int == nil {
			return nil, fmt.Errorf("synth: expected an int value")
		}
		return value.Int(*yv.Int), nil
	case types.Bool:
		if yv.Bool == nil {
			return nil, fmt.Errorf("synth: expected a bool value")
		}
		return value.Bool(*yv.Bool), nil
	default:
		return nil, fmt.Errorf("synth: unsupported scenario value type %s", t.String())
	}
}
