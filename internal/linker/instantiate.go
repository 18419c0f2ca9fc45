package linker

import (
	"fmt"

	"sil/internal/tree"
	"sil/internal/types"
)

// ConcretePort is a port or field after specialization.
type ConcretePort struct {
	Name string
	Dir  tree.PortDir
	Type types.ConcreteType
}

// Instantiation is one shared, fully specialized concretization of a
// generic entity for one concrete argument tuple. Consumers (the code
// generator) hold the pointer; identical argument tuples always yield
// the same pointer until the entity's cache is invalidated.
type Instantiation struct {
	Name  string
	Args  []types.ConcreteTemplateArg
	Ports []ConcretePort
}

// InstantiationCache memoizes an entity's specializations by concrete
// argument tuple. Failed attempts are cached too, so a repeated attempt
// neither recomputes nor re-emits diagnostics.
type InstantiationCache struct {
	instances map[string]*Instantiation
}

// Clear invalidates every cached specialization. Invoked whenever the
// entity's parametric body changes; invalidation is whole-entity.
func (c *InstantiationCache) Clear() {
	c.instances = nil
}

func (c *InstantiationCache) lookup(key string) (*Instantiation, bool) {
	inst, ok := c.instances[key]
	return inst, ok
}

func (c *InstantiationCache) store(key string, inst *Instantiation) {
	if c.instances == nil {
		c.instances = make(map[string]*Instantiation)
	}
	c.instances[key] = inst
}

// Instantiate specializes an entity for a concrete argument tuple. On a
// cache hit the existing shared result returns with no recomputation and
// no duplicate diagnostics. On a miss the parametric body is elaborated
// under the substitution, cached, and returned. A nil result means the
// arguments were rejected; the rejection was diagnosed on the entity the
// first time only. Constants are not instantiable; asking is a defect.
func (l *Linker) Instantiate(id GlobalID, args []types.ConcreteTemplateArg) (*Instantiation, bool) {
	switch id.Kind {
	case KindModule:
		md := l.modules.Get(uint32(id.AsModule()))
		return instantiate(l, &md.Instantiations, &md.Link, md.Ports, args)
	case KindType:
		st := l.structs.Get(uint32(id.AsType()))
		if st.IsBuiltin {
			panic(fmt.Errorf("linker: cannot instantiate builtin type '%s'", st.BuiltinName))
		}
		return instantiate(l, &st.Instantiations, &st.Link, st.Fields, args)
	}
	panic(fmt.Errorf("linker: %s is not an instantiable entity", id))
}

func instantiate(
	l *Linker,
	cache *InstantiationCache,
	link *LinkInfo,
	ports []Port,
	args []types.ConcreteTemplateArg,
) (*Instantiation, bool) {
	full := applyDefaults(link, args)
	key := types.ArgsKey(full)

	if inst, ok := cache.lookup(key); ok {
		return inst, inst != nil
	}

	if !ValidateTemplateArgs(&link.Errors, link.NameSpan, link, full) {
		cache.store(key, nil)
		return nil, false
	}

	inst := &Instantiation{
		Name: link.Name,
		Args: full,
	}
	for i := range ports {
		ct, ok := substituteType(l, link, full, &ports[i].Type)
		if !ok {
			continue
		}
		inst.Ports = append(inst.Ports, ConcretePort{
			Name: ports[i].Name,
			Dir:  ports[i].Dir,
			Type: ct,
		})
	}

	cache.store(key, inst)
	return inst, true
}

// substituteType rewrites a written type under a concrete substitution.
// References whose resolution already failed are skipped silently; their
// errors were reported during flatten.
func substituteType(
	l *Linker,
	link *LinkInfo,
	args []types.ConcreteTemplateArg,
	wt *WrittenType,
) (types.ConcreteType, bool) {
	switch wt.Kind {
	case WrittenError:
		return types.ConcreteType{}, false
	case WrittenParam:
		arg := args[wt.ParamIdx]
		if arg.Kind != types.ArgType {
			return types.ConcreteType{}, false
		}
		return arg.Type, true
	case WrittenNamed:
		ref := wt.Named
		target := l.structs.Get(uint32(ref.ID))

		subArgs := make([]types.ConcreteTemplateArg, len(ref.TemplateArgs))
		for i := range ref.TemplateArgs {
			subArgs[i] = substituteArg(l, link, args, &ref.TemplateArgs[i])
		}
		if !target.IsBuiltin {
			subArgs = applyDefaults(&target.Link, subArgs)
			if !ValidateTemplateArgs(&link.Errors, wt.Span, &target.Link, subArgs) {
				return types.ConcreteType{}, false
			}
		}
		return types.ConcreteType{ID: types.TypeRef(ref.ID), Args: subArgs}, true
	}
	return types.ConcreteType{}, false
}

func substituteArg(
	l *Linker,
	link *LinkInfo,
	args []types.ConcreteTemplateArg,
	arg *WrittenArg,
) types.ConcreteTemplateArg {
	switch arg.Kind {
	case WrittenTypeArg:
		ct, ok := substituteType(l, link, args, arg.Type)
		if !ok {
			return types.NotProvided()
		}
		return types.TypeArg(ct)
	case WrittenValueArg:
		if v, ok := evalValue(l, link, args, arg.Value); ok {
			return types.ValueArg(v)
		}
	}
	return types.NotProvided()
}

// evalValue evaluates a flat value instruction under the substitution.
func evalValue(
	l *Linker,
	link *LinkInfo,
	args []types.ConcreteTemplateArg,
	id FlatID,
) (types.Value, bool) {
	if !id.IsValid() {
		return types.Value{}, false
	}
	instr := link.Body.Get(id)
	switch instr.Kind {
	case InstrLiteral:
		return instr.Value, true
	case InstrConstRef:
		return l.constants.Get(uint32(instr.Constant)).Val, true
	case InstrParamDecl:
		arg := args[instr.ParamIdx]
		if arg.Kind == types.ArgValue {
			return arg.Value, true
		}
	}
	return types.Value{}, false
}
