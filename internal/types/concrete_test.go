package types

import "testing"

func TestArgsKeyDeterministic(t *testing.T) {
	args := []ConcreteTemplateArg{
		TypeArg(ConcreteType{ID: 1}),
		ValueArg(IntValue(8)),
		NotProvided(),
	}
	first := ArgsKey(args)
	second := ArgsKey(args)
	if first != second {
		t.Fatalf("ArgsKey not deterministic: %q vs %q", first, second)
	}
	if first != "t1#v8#_" {
		t.Fatalf("ArgsKey = %q", first)
	}
}

func TestArgsKeyNested(t *testing.T) {
	inner := ConcreteType{ID: 2, Args: []ConcreteTemplateArg{ValueArg(IntValue(3))}}
	args := []ConcreteTemplateArg{TypeArg(ConcreteType{ID: 1, Args: []ConcreteTemplateArg{TypeArg(inner)}})}
	if got := ArgsKey(args); got != "t1(t2(v3))" {
		t.Fatalf("ArgsKey = %q", got)
	}
}

func TestArgsKeyDistinguishesKinds(t *testing.T) {
	typeArg := []ConcreteTemplateArg{TypeArg(ConcreteType{ID: 7})}
	valueArg := []ConcreteTemplateArg{ValueArg(IntValue(7))}
	if ArgsKey(typeArg) == ArgsKey(valueArg) {
		t.Fatalf("type and value args share a key")
	}
}

func TestValueAbstract(t *testing.T) {
	if BoolValue(true).Abstract() != AbstractBool {
		t.Errorf("bool value abstract type")
	}
	if IntValue(1).Abstract() != AbstractInt {
		t.Errorf("int value abstract type")
	}
}
