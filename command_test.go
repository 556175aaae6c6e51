// command_test.go
package koicore

import (
	"testing"
)

func TestCommandConstruction(t *testing.T) {
	cmd := mustCommand(t, "character", NewLiteral("Alice"))
	if cmd.Name() != "character" || cmd.Kind() != CmdRegular {
		t.Fatalf("cmd = %s kind = %v", cmd, cmd.Kind())
	}

	for _, bad := range []string{"", "has space", "has\ttab", "@text", "@annotation", "@number"} {
		if _, err := NewCommand(bad); err == nil {
			t.Fatalf("NewCommand(%q) should fail", bad)
		}
	}
}

func TestSpecialConstructors(t *testing.T) {
	text := NewText("hello")
	if !text.IsText() || text.IsAnnotation() || text.IsNumber() {
		t.Fatal("bad text predicates")
	}
	if text.Name() != NameText {
		t.Fatalf("name = %q", text.Name())
	}

	ann := NewAnnotation("note")
	if !ann.IsAnnotation() || ann.Kind() != CmdAnnotation {
		t.Fatal("bad annotation predicates")
	}

	num := NewNumber(42, NewLiteral("extra"))
	if !num.IsNumber() || num.ParamCount() != 2 {
		t.Fatalf("num = %s", num)
	}
	wantInt(t, num.Params()[0], 42, RadixDecimal)
}

func TestSetName(t *testing.T) {
	cmd := mustCommand(t, "a")
	if err := cmd.SetName("b"); err != nil {
		t.Fatal(err)
	}
	if cmd.Name() != "b" {
		t.Fatalf("name = %q", cmd.Name())
	}
	for _, bad := range []string{"", "x y", "@text"} {
		if err := cmd.SetName(bad); err == nil {
			t.Fatalf("SetName(%q) should fail", bad)
		}
	}
	if cmd.Name() != "b" {
		t.Fatalf("failed SetName mutated name to %q", cmd.Name())
	}
}

func TestParamMutation(t *testing.T) {
	cmd := mustCommand(t, "c", NewInt(1), NewInt(3))
	if err := cmd.InsertParam(1, NewInt(2)); err != nil {
		t.Fatal(err)
	}
	if cmd.ParamCount() != 3 {
		t.Fatalf("count = %d", cmd.ParamCount())
	}
	for i, want := range []int64{1, 2, 3} {
		p, err := cmd.Param(i)
		if err != nil {
			t.Fatal(err)
		}
		wantInt(t, p, want, RadixDecimal)
	}

	if err := cmd.RemoveParam(0); err != nil {
		t.Fatal(err)
	}
	wantInt(t, cmd.Params()[0], 2, RadixDecimal)

	if err := cmd.RemoveParam(5); err == nil {
		t.Fatal("RemoveParam(5) should fail")
	} else if e, ok := err.(*Error); !ok || e.Kind != ErrIndexOutOfBounds {
		t.Fatalf("err = %v", err)
	}

	cmd.AddParam(NewBool(true))
	if cmd.ParamCount() != 3 {
		t.Fatalf("count = %d", cmd.ParamCount())
	}
	cmd.ClearParams()
	if cmd.ParamCount() != 0 {
		t.Fatalf("count = %d", cmd.ParamCount())
	}
	if _, err := cmd.Param(0); err == nil {
		t.Fatal("Param(0) on empty should fail")
	}
}

func TestTypedSetters(t *testing.T) {
	cmd := mustCommand(t, "c", NewIntRadix(255, RadixHex), NewFloat(1.5), NewString("s"), NewBool(false))
	if err := cmd.SetInt(0, 16); err != nil {
		t.Fatal(err)
	}
	// The recorded radix survives the update.
	wantInt(t, cmd.Params()[0], 16, RadixHex)

	if err := cmd.SetFloat(1, 2.5); err != nil {
		t.Fatal(err)
	}
	if err := cmd.SetString(2, "t"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.SetBool(3, true); err != nil {
		t.Fatal(err)
	}

	err := cmd.SetInt(1, 9)
	if err == nil {
		t.Fatal("SetInt on a float should fail")
	}
	if e, ok := err.(*Error); !ok || e.Kind != ErrTypeMismatch {
		t.Fatalf("err = %v", err)
	}
	if err := cmd.SetFloat(9, 1); err == nil {
		t.Fatal("out-of-range index should fail")
	}
}

func TestTypedAccessMismatch(t *testing.T) {
	v := NewInt(1)
	if _, err := v.Float(); err == nil {
		t.Fatal("Float() on int should fail")
	} else if e := err.(*Error); e.Kind != ErrTypeMismatch {
		t.Fatalf("kind = %s", e.Kind)
	}
	if _, err := v.Str(); err == nil {
		t.Fatal("Str() on int should fail")
	}
	if _, err := v.Item(0); err == nil {
		t.Fatal("Item() on int should fail")
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := NewDict("pos")
	d.Set("x", NewInt(1))
	cmd := mustCommand(t, "draw", d, NewList("c", NewInt(9)))
	dup := cmd.Clone()
	if !cmd.Equal(dup) {
		t.Fatal("clone differs")
	}

	inner, _ := dup.Params()[0].Get("x")
	_ = inner
	dup.Params()[0].Set("x", NewInt(99))
	orig, _ := cmd.Params()[0].Get("x")
	wantInt(t, orig, 1, RadixDecimal)
	if cmd.Equal(dup) {
		t.Fatal("mutating the clone affected the original")
	}
}

func TestEquality(t *testing.T) {
	a := mustCommand(t, "a", NewIntRadix(5, RadixBinary))
	b := mustCommand(t, "a", NewIntRadix(5, RadixBinary))
	if !a.Equal(b) {
		t.Fatal("equal commands differ")
	}
	// Radix participates in equality.
	c := mustCommand(t, "a", NewInt(5))
	if a.Equal(c) {
		t.Fatal("radix should distinguish values")
	}
	d := mustCommand(t, "b", NewIntRadix(5, RadixBinary))
	if a.Equal(d) {
		t.Fatal("names should distinguish commands")
	}
}

func TestDictOrderAndReplace(t *testing.T) {
	d := NewDict("d")
	d.Set("b", NewInt(1))
	d.Set("a", NewInt(2))
	d.Set("c", NewInt(3))
	d.Set("a", NewInt(9))
	if d.Len() != 3 {
		t.Fatalf("len = %d", d.Len())
	}
	wantKeys := []string{"b", "a", "c"}
	for i, wk := range wantKeys {
		k, err := d.Key(i)
		if err != nil || k != wk {
			t.Fatalf("key %d = %q (%v), want %q", i, k, err, wk)
		}
	}
	a, _ := d.Get("a")
	wantInt(t, a, 9, RadixDecimal)
	if _, err := d.Key(3); err == nil {
		t.Fatal("Key(3) should fail")
	}
}

func TestListAppend(t *testing.T) {
	l := NewList("l", NewInt(1))
	if err := l.Append(NewInt(2)); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 2 {
		t.Fatalf("len = %d", l.Len())
	}
	if err := NewInt(1).Append(NewInt(2)); err == nil {
		t.Fatal("Append on scalar should fail")
	}
}
