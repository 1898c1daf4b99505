package schema_test

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/scale-codec/errors"
	"github.com/wippyai/scale-codec/schema"
)

// parseOne is a helper for tests that expect exactly one definition.
func parseOne(t *testing.T, src string) schema.TypeDef {
	t.Helper()
	defs, err := schema.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	if len(defs) != 1 {
		t.Fatalf("Parse(%q): got %d definitions, want 1", src, len(defs))
	}
	return defs[0]
}

func TestParseRoundTrip(t *testing.T) {
	// Every construct renders back to its canonical source form.
	tests := []struct {
		src  string
		want string
	}{
		{"A=#u8", "A=u8"},
		{"A=u32", "A=u32"},
		{"A=@u64", "A=@u64"},
		{"A=@()", "A=@()"},
		{"A=[u8]", "A=[u8]"},
		{"A=[u8;32]", "A=[u8;32]"},
		{"A=(u8,str,bool)", "A=(u8,str,bool)"},
		{"A=()", "A=()"},
		{"A=<Ping,Pong:str>", "A=<Ping,Pong:str>"},
		{"A=<B::5,C:u32:7>", "A=<B::5,C:u32:7>"},
		{"A={x:u32,y:[str]}", "A={x:u32,y:[str]}"},
		{"A=3", "A=3"},
		{"A=[{x:u8}]", "A=[{x:u8}]"},
		{"Pair<T>=(T,T)", "Pair<T>=(T,T)"},
		{"A=Pair<u8>", "A=Pair<u8>"},
		{"A=Map<K,V>", "A=Map<K,V>"},
	}

	for _, tt := range tests {
		def := parseOne(t, tt.src)
		if got := def.String(); got != tt.want {
			t.Errorf("Parse(%q).String() = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestParseAnonymous(t *testing.T) {
	defs, err := schema.Parse("u32; {x:u8}; Named=str")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(defs) != 3 {
		t.Fatalf("got %d definitions, want 3", len(defs))
	}
	if defs[0].Name != "" || defs[1].Name != "" {
		t.Errorf("anonymous definitions must have empty names, got %q, %q", defs[0].Name, defs[1].Name)
	}
	if defs[2].Name != "Named" {
		t.Errorf("got name %q, want Named", defs[2].Name)
	}
}

func TestParseSeparators(t *testing.T) {
	// Definitions separated by newlines alone, plus stray semicolons.
	src := `
		A = u8

		;;
		B = u16
		C = u32;
	`
	defs, err := schema.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(defs) != 3 {
		t.Fatalf("got %d definitions, want 3", len(defs))
	}
}

func TestParseTrailingSeparators(t *testing.T) {
	tests := []string{
		"A=(u8,u16,)",
		"A={x:u8,y:u16,}",
		"A=<B,C,>",
		"A=<B|C|>",
		"Pair<T,>=(T,T)",
		"A=Pair<u8,>",
	}
	for _, src := range tests {
		if _, err := schema.Parse(src); err != nil {
			t.Errorf("Parse(%q): %v", src, err)
		}
	}
}

func TestParseVariantForms(t *testing.T) {
	def := parseOne(t, "E=<A, B:, C:u32, D::9, E:str:12>")
	enum, ok := def.Type.(schema.Enum)
	if !ok {
		t.Fatalf("got %T, want Enum", def.Type)
	}
	if len(enum.Variants) != 5 {
		t.Fatalf("got %d variants, want 5", len(enum.Variants))
	}

	tests := []struct {
		name       string
		hasPayload bool
		tag        int
	}{
		{"A", false, -1},
		{"B", false, -1},
		{"C", true, -1},
		{"D", false, 9},
		{"E", true, 12},
	}
	for i, tt := range tests {
		v := enum.Variants[i]
		if v.Name != tt.name {
			t.Errorf("variant %d: name %q, want %q", i, v.Name, tt.name)
		}
		if (v.Payload != nil) != tt.hasPayload {
			t.Errorf("variant %s: payload presence = %v, want %v", v.Name, v.Payload != nil, tt.hasPayload)
		}
		if tt.tag < 0 && v.Tag != nil {
			t.Errorf("variant %s: unexpected tag %d", v.Name, *v.Tag)
		}
		if tt.tag >= 0 && (v.Tag == nil || *v.Tag != uint32(tt.tag)) {
			t.Errorf("variant %s: tag = %v, want %d", v.Name, v.Tag, tt.tag)
		}
	}
}

func TestParseGenericDef(t *testing.T) {
	def := parseOne(t, "Result<T, E> = <Ok:T, Err:E>")
	if def.Name != "Result" {
		t.Errorf("name = %q, want Result", def.Name)
	}
	if len(def.TypeParams) != 2 || def.TypeParams[0] != "T" || def.TypeParams[1] != "E" {
		t.Errorf("type params = %v, want [T E]", def.TypeParams)
	}
}

func TestParseNestedGenericRef(t *testing.T) {
	def := parseOne(t, "A = Result<Pair<u8>, str>")
	alias, ok := def.Type.(schema.Alias)
	if !ok {
		t.Fatalf("got %T, want Alias", def.Type)
	}
	name, ok := alias.Target.(schema.Name)
	if !ok {
		t.Fatalf("got %T, want Name", alias.Target)
	}
	if name.Name != "Result" || len(name.Args) != 2 {
		t.Fatalf("got %s, want Result with 2 args", name.String())
	}
	inner, ok := name.Args[0].(schema.Name)
	if !ok || inner.Name != "Pair" || len(inner.Args) != 1 {
		t.Errorf("first arg = %v, want Pair<u8>", name.Args[0])
	}
}

func TestParseCollectsAllErrors(t *testing.T) {
	// Both definitions are malformed; recovery at ';' must surface both.
	_, err := schema.Parse("A = {x:}; B = <1>; C = u8")
	if err == nil {
		t.Fatal("expected error")
	}
	var src *errors.SourceErrors
	if !stderrors.As(err, &src) {
		t.Fatalf("got %T, want *SourceErrors", err)
	}
	if len(src.Errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(src.Errs), src.Errs)
	}
}

func TestParseErrorMentionsLine(t *testing.T) {
	_, err := schema.Parse("A = u8\nB = {broken")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name line 2", err.Error())
	}
}

func TestParseType(t *testing.T) {
	ty, err := schema.ParseType("[u8;32]")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	arr, ok := ty.(schema.Array)
	if !ok {
		t.Fatalf("got %T, want Array", ty)
	}
	if arr.Len != 32 {
		t.Errorf("len = %d, want 32", arr.Len)
	}
}

func TestParseTypeRejectsTrailing(t *testing.T) {
	if _, err := schema.ParseType("u8 u16"); err == nil {
		t.Fatal("expected error for trailing input")
	}
}

func TestParseUnknownPrimitive(t *testing.T) {
	if _, err := schema.Parse("A = #f32"); err == nil {
		t.Fatal("expected error for unknown primitive")
	}
}

func TestParseDepthLimit(t *testing.T) {
	src := "A = " + strings.Repeat("[", 200) + "u8" + strings.Repeat("]", 200)
	_, err := schema.Parse(src)
	if err == nil {
		t.Fatal("expected depth error")
	}
	if !strings.Contains(err.Error(), "depth") {
		t.Errorf("error %q does not mention depth", err.Error())
	}
}

func TestParseGenericArgDepthLimit(t *testing.T) {
	// Generic argument lists nest through the reference parser without
	// passing through a type expression, so they must hit the same cap
	// instead of exhausting the stack.
	src := "A = " + strings.Repeat("B<", 100000) + "u8" + strings.Repeat(">", 100000)
	_, err := schema.Parse(src)
	if err == nil {
		t.Fatal("expected depth error")
	}
	if !strings.Contains(err.Error(), "depth") {
		t.Errorf("error %q does not mention depth", err.Error())
	}
}
