package linker

import (
	"testing"

	"sil/internal/diag"
	"sil/internal/source"
)

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestCheckpointRollback(t *testing.T) {
	link := LinkInfo{Name: "M", Globals: EmptyResolvedGlobals()}
	link.Errors.Add(diag.NewError(diag.LinkInfo, source.Span{}, "gather-time"))
	link.BindCheckpoint(0)

	errs, globals := link.Errors.Take(), link.Globals.Take()
	errs.Add(diag.NewError(diag.LinkUnresolvedName, source.Span{}, "flatten-time"))
	globals.Refs = append(globals.Refs, ModuleGlobal(7))
	globals.AllResolved = false
	link.Reabsorb(errs, globals, 1)

	if link.Errors.Len() != 2 || len(link.Globals.Refs) != 1 {
		t.Fatalf("state after reabsorb: %d errors, %d refs", link.Errors.Len(), len(link.Globals.Refs))
	}

	link.ResetTo(0)
	if link.Errors.Len() != 1 {
		t.Fatalf("rollback kept %d errors", link.Errors.Len())
	}
	if len(link.Globals.Refs) != 0 || !link.Globals.AllResolved {
		t.Fatalf("rollback kept deps: %+v", link.Globals)
	}
	if len(link.Checkpoints) != 1 {
		t.Fatalf("rollback kept %d checkpoints", len(link.Checkpoints))
	}
}

func TestReabsorbProtocolViolationsPanic(t *testing.T) {
	fresh := func() *LinkInfo {
		link := &LinkInfo{Name: "M", Globals: EmptyResolvedGlobals()}
		link.BindCheckpoint(0)
		return link
	}

	mustPanic(t, "wrong checkpoint index", func() {
		link := fresh()
		errs, globals := link.Errors.Take(), link.Globals.Take()
		link.Reabsorb(errs, globals, 5)
	})

	mustPanic(t, "touched error store", func() {
		link := fresh()
		errs, globals := link.Errors.Take(), link.Globals.Take()
		link.Errors.Add(diag.NewError(diag.LinkInfo, source.Span{}, "sneaky write"))
		link.Reabsorb(errs, globals, 1)
	})

	mustPanic(t, "touched dependency record", func() {
		link := fresh()
		errs, globals := link.Errors.Take(), link.Globals.Take()
		link.Globals.Refs = append(link.Globals.Refs, ModuleGlobal(1))
		link.Reabsorb(errs, globals, 1)
	})

	mustPanic(t, "bind out of order", func() {
		link := fresh()
		link.BindCheckpoint(5)
	})

	mustPanic(t, "reset past the end", func() {
		link := fresh()
		link.ResetTo(3)
	})
}

func TestResolvedGlobalsTake(t *testing.T) {
	r := EmptyResolvedGlobals()
	if !r.IsUntouched() {
		t.Fatalf("fresh record must be untouched")
	}
	r.Refs = append(r.Refs, ModuleGlobal(1))
	r.AllResolved = false
	if r.IsUntouched() {
		t.Fatalf("written record must not be untouched")
	}

	taken := r.Take()
	if len(taken.Refs) != 1 || taken.AllResolved {
		t.Fatalf("taken = %+v", taken)
	}
	if !r.IsUntouched() {
		t.Fatalf("record must reset after Take")
	}
}
