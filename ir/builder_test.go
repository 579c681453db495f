package ir_test

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
	"github.com/wippyai/decompiler/ir"
	"github.com/wippyai/decompiler/signature"
)

// loopBody is
//
//	int i = 0; while (i < 10) i++; return i;
var loopBody = []byte{
	0x16,       // IL_0000 ldc.i4.0
	0x0A,       // IL_0001 stloc.0
	0x2B, 0x04, // IL_0002 br.s IL_0008
	0x06,       // IL_0004 ldloc.0
	0x17,       // IL_0005 ldc.i4.1
	0x58,       // IL_0006 add
	0x0A,       // IL_0007 stloc.0
	0x06,       // IL_0008 ldloc.0
	0x1F, 0x0A, // IL_0009 ldc.i4.s 10
	0x32, 0xF7, // IL_000b blt.s IL_0004
	0x06, // IL_000d ldloc.0
	0x2A, // IL_000e ret
}

var loopOptions = ir.Options{Locals: []ir.StackType{ir.StackI4}, ReturnType: ir.StackI4}

func lines(t *testing.T, fn *ir.Function, blocks []*ir.Block) []string {
	t.Helper()
	var buf bytes.Buffer
	if err := ir.FormatFunction(&buf, fn, blocks); err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func checkLines(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), strings.Join(got, "\n"))
	}
	for k := range want {
		if got[k] != want[k] {
			t.Errorf("line %d:\n got %q\nwant %q", k, got[k], want[k])
		}
	}
}

func TestBuildArithmetic(t *testing.T) {
	code := []byte{0x02, 0x03, 0x58, 0x2A}
	fn, err := ir.Build(code, ir.Options{Params: []ir.StackType{ir.StackI4, ir.StackI4}, ReturnType: ir.StackI4})
	if err != nil {
		t.Fatal(err)
	}

	checkLines(t, lines(t, fn, nil), []string{
		"IL_0000: ldarg 0 [pop=0 push=i4]",
		"IL_0001: ldarg 1 [pop=0 push=i4]",
		"IL_0002: add.i4 [pop=2 push=i4]",
		"IL_0003: ret [pop=1 push=void]",
	})

	add, ok := fn.Instructions[2].(*ir.BinaryNumeric)
	if !ok {
		t.Fatalf("add built as %T", fn.Instructions[2])
	}
	if add.OpType != ir.StackI4 || add.ResultType != ir.StackI4 || add.Overflow != ir.OverflowNone {
		t.Errorf("add = %+v", add)
	}
	if fn.Instructions[2].Range() != (ir.Interval{Start: 2, End: 2}) {
		t.Errorf("add range = %v", fn.Instructions[2].Range())
	}
	if fn.CodeSize != len(code) {
		t.Errorf("CodeSize = %d", fn.CodeSize)
	}
}

func TestBuildNumericTyping(t *testing.T) {
	tests := []struct {
		name   string
		params []ir.StackType
		code   []byte
		want   string
	}{
		{"native plus int32", []ir.StackType{ir.StackI, ir.StackI4}, []byte{0x02, 0x03, 0x58, 0x2A}, "add.i"},
		{"byref plus native", []ir.StackType{ir.StackRef, ir.StackI}, []byte{0x02, 0x03, 0x58, 0x2A}, "add.ref"},
		{"byref minus byref", []ir.StackType{ir.StackRef, ir.StackRef}, []byte{0x02, 0x03, 0x59, 0x2A}, "sub.ref"},
		{"checked unsigned add", []ir.StackType{ir.StackI8, ir.StackI8}, []byte{0x02, 0x03, 0xD7, 0x2A}, "add.ovf.un.i8"},
		{"unsigned div", []ir.StackType{ir.StackI4, ir.StackI4}, []byte{0x02, 0x03, 0x5C, 0x2A}, "div.un.i4"},
		{"shift keeps left type", []ir.StackType{ir.StackI8, ir.StackI4}, []byte{0x02, 0x03, 0x62, 0x2A}, "shl.i8"},
		{"float compare", []ir.StackType{ir.StackF, ir.StackF}, []byte{0x02, 0x03, 0xFE, 0x05, 0x2A}, "clt.un.f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := ir.Build(tt.code, ir.Options{Params: tt.params})
			if err != nil {
				t.Fatal(err)
			}
			if got := ir.Text(fn.Instructions[2]); got != tt.want {
				t.Errorf("Text = %q, want %q", got, tt.want)
			}
		})
	}

	fn, err := ir.Build([]byte{0x02, 0x03, 0x59, 0x2A}, ir.Options{Params: []ir.StackType{ir.StackRef, ir.StackRef}})
	if err != nil {
		t.Fatal(err)
	}
	if got := fn.Instructions[2].PushType(); got != ir.StackI {
		t.Errorf("byref difference pushes %v, want i", got)
	}
}

func TestBuildConversions(t *testing.T) {
	tests := []struct {
		op   byte
		want string
		push ir.StackType
	}{
		{0x67, "conv i8->i1", ir.StackI4},
		{0x6E, "conv i8->u8", ir.StackI8},
		{0x76, "conv.un i8->r8", ir.StackF},
		{0xB4, "conv.ovf i8->u1", ir.StackI4},
		{0x8A, "conv.ovf.un i8->i", ir.StackI},
		{0xD3, "conv i8->i", ir.StackI},
	}

	for _, tt := range tests {
		fn, err := ir.Build([]byte{0x02, tt.op, 0x2A}, ir.Options{Params: []ir.StackType{ir.StackI8}})
		if err != nil {
			t.Fatalf("0x%02x: %v", tt.op, err)
		}
		conv := fn.Instructions[1]
		if got := ir.Text(conv); got != tt.want {
			t.Errorf("0x%02x: Text = %q, want %q", tt.op, got, tt.want)
		}
		if conv.PushType() != tt.push {
			t.Errorf("0x%02x: PushType = %v, want %v", tt.op, conv.PushType(), tt.push)
		}
	}
}

func TestBuildConditionalBranches(t *testing.T) {
	tests := []struct {
		op    byte
		ints  string
		float string
	}{
		{0x2E, "ceq.i4", "ceq.f"},
		{0x33, "logic.not(ceq.i4)", "logic.not(ceq.f)"},
		{0x30, "cgt.i4", "cgt.f"},
		{0x32, "clt.i4", "clt.f"},
		{0x2F, "logic.not(clt.i4)", "logic.not(clt.un.f)"},
		{0x31, "logic.not(cgt.i4)", "logic.not(cgt.un.f)"},
		{0x35, "cgt.un.i4", "cgt.un.f"},
		{0x37, "clt.un.i4", "clt.un.f"},
		{0x34, "logic.not(clt.un.i4)", "logic.not(clt.f)"},
		{0x36, "logic.not(cgt.un.i4)", "logic.not(cgt.f)"},
	}

	for _, tt := range tests {
		for _, typ := range []ir.StackType{ir.StackI4, ir.StackF} {
			code := []byte{0x02, 0x03, tt.op, 0x00, 0x2A}
			fn, err := ir.Build(code, ir.Options{Params: []ir.StackType{typ, typ}, ReturnType: ir.StackVoid})
			if err != nil {
				t.Fatalf("0x%02x %v: %v", tt.op, typ, err)
			}
			br, ok := fn.Instructions[2].(*ir.ConditionalBranch)
			if !ok {
				t.Fatalf("0x%02x built as %T", tt.op, fn.Instructions[2])
			}
			want := tt.ints
			if typ == ir.StackF {
				want = tt.float
			}
			if got := ir.Text(br.Condition); got != want {
				t.Errorf("0x%02x %v: condition %q, want %q", tt.op, typ, got, want)
			}
			if br.StackPopCount() != 2 {
				t.Errorf("0x%02x: pops %d", tt.op, br.StackPopCount())
			}
			if off, _ := br.Target.Offset(); off != 4 {
				t.Errorf("0x%02x: target %d", tt.op, off)
			}
		}
	}
}

func TestBuildBrtrueBrfalse(t *testing.T) {
	// ldarg.0; brfalse.s IL_0004; nop; ldarg.0; brtrue.s IL_0004; ret
	code := []byte{0x02, 0x2C, 0x01, 0x00, 0x02, 0x2D, 0xFD, 0x2A}
	fn, err := ir.Build(code, ir.Options{Params: []ir.StackType{ir.StackI4}, ReturnType: ir.StackVoid})
	if err != nil {
		t.Fatal(err)
	}

	checkLines(t, lines(t, fn, nil), []string{
		"IL_0000: ldarg 0 [pop=0 push=i4]",
		"IL_0001: if (logic.not(_)) goto IL_0004 [pop=1 push=void]",
		"IL_0003: nop [pop=0 push=void]",
		"IL_0004: ldarg 0 [pop=0 push=i4]",
		"IL_0005: if (_) goto IL_0004 [pop=1 push=void]",
		"IL_0007: ret [pop=0 push=void]",
	})
	if !ir.IsUnresolved(fn.Instructions[1]) {
		t.Error("freshly built branch should be unresolved")
	}
}

func TestBuildDupCkfinite(t *testing.T) {
	code := []byte{0x02, 0x25, 0xC3, 0x26, 0x26, 0x2A}
	fn, err := ir.Build(code, ir.Options{Params: []ir.StackType{ir.StackF}, ReturnType: ir.StackVoid})
	if err != nil {
		t.Fatal(err)
	}

	dup, ok := fn.Instructions[1].(*ir.Dup)
	if !ok || dup.Elem != ir.StackF {
		t.Fatalf("dup = %#v", fn.Instructions[1])
	}
	if dup.StackPopCount() != 0 || !dup.IsPeeking() {
		t.Error("dup should pop nothing and peek")
	}
	if _, ok := fn.Instructions[2].(*ir.Ckfinite); !ok {
		t.Errorf("ckfinite built as %T", fn.Instructions[2])
	}
	if fn.Instructions[5].StackPopCount() != 0 {
		t.Error("void ret should pop nothing")
	}
}

func TestBuildUnderflow(t *testing.T) {
	tests := []struct {
		name string
		code []byte
	}{
		{"add on empty stack", []byte{0x58}},
		{"add with one value", []byte{0x16, 0x58}},
		{"pop on empty stack", []byte{0x26}},
		{"dup on empty stack", []byte{0x25}},
		{"ckfinite on empty stack", []byte{0xC3}},
		{"stloc on empty stack", []byte{0x0A}},
		{"brtrue on empty stack", []byte{0x2D, 0x00}},
		{"stack reset after br", []byte{0x16, 0x2B, 0x01, 0x26, 0x2A}},
		{"stack reset after jmp", []byte{0x16, 0x27, 0x01, 0x00, 0x00, 0x06, 0x26, 0x2A}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ir.Build(tt.code, ir.Options{Locals: []ir.StackType{ir.StackI4}})
			if !errors.IsMalformed(err) {
				t.Errorf("got %v, want malformed", err)
			}
		})
	}
}

func TestBuildStackAtBranchTarget(t *testing.T) {
	// ldc.i4.1; br.s IL_0005; ldc.i4.2; pop; IL_0005: pop; ret
	// The value pushed before br.s is still on the stack at IL_0005.
	code := []byte{0x17, 0x2B, 0x02, 0x18, 0x26, 0x26, 0x2A}
	fn, err := ir.Build(code, ir.Options{ReturnType: ir.StackVoid})
	if err != nil {
		t.Fatal(err)
	}
	if len(fn.Instructions) != 6 {
		t.Fatalf("got %d instructions", len(fn.Instructions))
	}
}

func TestBuildMalformedCode(t *testing.T) {
	_, err := ir.Build([]byte{0x16, 0xFE}, ir.Options{})
	if !errors.IsMalformed(err) {
		t.Errorf("got %v, want malformed", err)
	}
}

type fakeResolver struct {
	methods map[handle.Handle]*signature.Method
	fields  map[handle.Handle]signature.Type
}

var errMissing = stderrors.New("missing token")

func (r fakeResolver) MethodSignature(tok handle.Handle) (*signature.Method, error) {
	if m, ok := r.methods[tok]; ok {
		return m, nil
	}
	return nil, errMissing
}

func (r fakeResolver) FieldSignature(tok handle.Handle) (signature.Type, error) {
	if f, ok := r.fields[tok]; ok {
		return f, nil
	}
	return nil, errMissing
}

func TestBuildCalls(t *testing.T) {
	i4 := &signature.Primitive{Code: signature.CodeInt32}
	instance := &signature.Method{
		Header:     signature.HeaderHasThis,
		ReturnType: i4,
		Params:     signature.NewCollection([]signature.Type{i4}, -1),
	}
	ctor := &signature.Method{
		Header:     signature.HeaderHasThis,
		ReturnType: &signature.Primitive{Code: signature.CodeVoid},
		Params:     signature.NewCollection([]signature.Type{i4, i4}, -1),
	}
	res := fakeResolver{
		methods: map[handle.Handle]*signature.Method{
			handle.New(handle.TableMemberRef, 1): instance,
			handle.New(handle.TableMethodDef, 2): ctor,
		},
		fields: map[handle.Handle]signature.Type{
			handle.New(handle.TableField, 1): &signature.Primitive{Code: signature.CodeInt64},
		},
	}

	code := []byte{
		0x02,                         // IL_0000 ldarg.0
		0x17,                         // IL_0001 ldc.i4.1
		0x6F, 0x01, 0x00, 0x00, 0x0A, // IL_0002 callvirt 0x0a000001
		0x18,                         // IL_0007 ldc.i4.2
		0x73, 0x02, 0x00, 0x00, 0x06, // IL_0008 newobj 0x06000002
		0x26,                         // IL_000d pop
		0x7E, 0x01, 0x00, 0x00, 0x04, // IL_000e ldsfld 0x04000001
		0x26, // IL_0013 pop
		0x2A, // IL_0014 ret
	}
	fn, err := ir.Build(code, ir.Options{Params: []ir.StackType{ir.StackO}, Resolver: res, ReturnType: ir.StackVoid})
	if err != nil {
		t.Fatal(err)
	}

	checkLines(t, lines(t, fn, nil), []string{
		"IL_0000: ldarg 0 [pop=0 push=o]",
		"IL_0001: ldc.i4 1 [pop=0 push=i4]",
		"IL_0002: callvirt 0x0a000001 [pop=2 push=i4]",
		"IL_0007: ldc.i4 2 [pop=0 push=i4]",
		"IL_0008: newobj 0x06000002 [pop=2 push=o]",
		"IL_000d: pop [pop=1 push=void]",
		"IL_000e: ldsfld 0x04000001 [pop=0 push=i8]",
		"IL_0013: pop [pop=1 push=void]",
		"IL_0014: ret [pop=0 push=void]",
	})
	if fn.Instructions[2].Code() != ir.CodeCall {
		t.Errorf("callvirt code = %v", fn.Instructions[2].Code())
	}
}

func TestBuildCallErrors(t *testing.T) {
	code := []byte{0x28, 0x01, 0x00, 0x00, 0x0A, 0x2A}

	_, err := ir.Build(code, ir.Options{})
	if !errors.IsKind(err, errors.KindUnsupported) {
		t.Errorf("no resolver: %v", err)
	}

	_, err = ir.Build(code, ir.Options{Resolver: fakeResolver{}})
	if !errors.IsKind(err, errors.KindNotFound) || !stderrors.Is(err, errMissing) {
		t.Errorf("unknown token: %v", err)
	}
}

// tryCatchBody is
//
//	try { } catch { } return;
var tryCatchBody = []byte{
	0x00,       // IL_0000 nop
	0xDE, 0x03, // IL_0001 leave.s IL_0006
	0x26,       // IL_0003 pop
	0xDE, 0x00, // IL_0004 leave.s IL_0006
	0x2A, // IL_0006 ret
}

var tryCatchRegion = ir.ExceptionRegion{
	Kind:          ir.HandlerCatch,
	CatchType:     handle.New(handle.TableTypeRef, 1),
	TryOffset:     0,
	TryLength:     3,
	HandlerOffset: 3,
	HandlerLength: 3,
}

func TestBuildExceptionHandler(t *testing.T) {
	if _, err := ir.Build(tryCatchBody, ir.Options{ReturnType: ir.StackVoid}); !errors.IsMalformed(err) {
		t.Errorf("without region the handler pop underflows, got %v", err)
	}

	fn, err := ir.Build(tryCatchBody, ir.Options{ReturnType: ir.StackVoid, Regions: []ir.ExceptionRegion{tryCatchRegion}})
	if err != nil {
		t.Fatal(err)
	}
	leave, ok := fn.Instructions[1].(*ir.Branch)
	if !ok || !leave.Leave {
		t.Fatalf("leave built as %#v", fn.Instructions[1])
	}
	if len(fn.Regions) != 1 {
		t.Errorf("regions not carried: %v", fn.Regions)
	}
}

func TestBuildLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ir.SetLogger(zap.New(core))
	defer ir.SetLogger(zap.NewNop())

	if _, err := ir.Build(loopBody, loopOptions); err != nil {
		t.Fatal(err)
	}

	entries := logs.FilterMessage("built method body").All()
	if len(entries) != 1 {
		t.Fatalf("got %d build log entries", len(entries))
	}
	if got := entries[0].ContextMap()["instructions"]; got != int64(12) {
		t.Errorf("instructions field = %v", got)
	}
}
