// json_test.go
package koicore

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONRoundTrip(t *testing.T) {
	src := `#draw Line 2 pos0(x: 0, y: 0) thickness(0x10) color(255, 255, 255) on(true) ratio(0.5)`
	cmds, err := ParseString(src, DefaultParserConfig())
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(cmds)
	if err != nil {
		t.Fatal(err)
	}

	var back []*Command
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != len(cmds) {
		t.Fatalf("len = %d", len(back))
	}
	for i := range cmds {
		if !cmds[i].Equal(back[i]) {
			t.Fatalf("command %d: %s != %s", i, cmds[i], back[i])
		}
	}
}

func TestJSONRadixTag(t *testing.T) {
	cmd := mustCommand(t, "n", NewIntRadix(255, RadixHex))
	data, err := json.Marshal(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"radix":"hex"`) {
		t.Fatalf("missing radix tag: %s", data)
	}
	// Decimal is the default and stays implicit.
	cmd = mustCommand(t, "n", NewInt(255))
	data, _ = json.Marshal(cmd)
	if strings.Contains(string(data), "radix") {
		t.Fatalf("unexpected radix tag: %s", data)
	}
}

func TestJSONDictOrder(t *testing.T) {
	cmds, err := ParseString("#a d(z: 1, a: 2, m: 3)", DefaultParserConfig())
	if err != nil {
		t.Fatal(err)
	}
	data, _ := json.Marshal(cmds[0])

	var back Command
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	d := back.Params()[0]
	for i, want := range []string{"z", "a", "m"} {
		k, err := d.Key(i)
		if err != nil || k != want {
			t.Fatalf("key %d = %q (%v), want %q", i, k, err, want)
		}
	}
}

func TestJSONSpecialCommands(t *testing.T) {
	for _, cmd := range []*Command{
		NewText("hello"),
		NewAnnotation("## note"),
		NewNumber(42, NewLiteral("x")),
	} {
		data, err := json.Marshal(cmd)
		if err != nil {
			t.Fatal(err)
		}
		var back Command
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatal(err)
		}
		if !cmd.Equal(&back) {
			t.Fatalf("%s != %s", cmd, &back)
		}
	}
}

func TestJSONScalarZeroValues(t *testing.T) {
	cmd := mustCommand(t, "z", NewInt(0), NewBool(false), NewString(""), NewFloat(0))
	data, err := json.Marshal(cmd)
	if err != nil {
		t.Fatal(err)
	}
	var back Command
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !cmd.Equal(&back) {
		t.Fatalf("%s != %s (json %s)", cmd, &back, data)
	}
}

func TestJSONRejectsUnknownType(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"type":"widget","value":1}`), &v); err == nil {
		t.Fatal("expected error")
	}
	var c Command
	if err := json.Unmarshal([]byte(`{"params":[]}`), &c); err == nil {
		t.Fatal("expected error for missing name")
	}
}
