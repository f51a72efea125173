package jsast

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

func wireFixture() []Stmt {
	return []Stmt{
		&SVar{Decls: []Decl{{Name: "x", Value: &ENew{Target: &ETypeRef{Type: 7}, Args: []Expr{&ENumber{Value: 2}}}}}},
		&STry{
			Body:       []Stmt{&SExpr{Value: Call(&ERuntime{Member: "getDefaultValue"}, &ETypeRef{Type: 7})}},
			CatchParam: "e",
			Catch:      []Stmt{&SThrow{Value: Ident("e")}},
		},
		&SFor{Test: &EBoolean{Value: true}, Body: []Stmt{&SBreak{}}},
		&SReturn{Value: &EObject{Props: []Property{{Key: "k", Value: &EArray{Items: []Expr{&ENull{}, &EThis{}}}}}}},
	}
}

func keyOf(id model.TypeID) string { return fmt.Sprintf("T%d", id) }

func resolveKey(key string) (model.TypeID, error) {
	var n uint32
	if _, err := fmt.Sscanf(key, "T%d", &n); err != nil {
		return model.NoTypeID, err
	}
	return model.TypeID(n), nil
}

func TestWireRoundTripJSONAndMsgpack(t *testing.T) {
	orig := wireFixture()
	want := PrintString(orig, PrintOptions{})
	nodes := EncodeStmts(orig, keyOf)

	data, err := json.Marshal(nodes)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	var fromJSON []*Node
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	stmts, err := DecodeStmts(fromJSON, resolveKey)
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if got := PrintString(stmts, PrintOptions{}); got != want {
		t.Fatalf("json round trip:\n%s\nwant:\n%s", got, want)
	}

	packed, err := msgpack.Marshal(nodes)
	if err != nil {
		t.Fatalf("msgpack marshal: %v", err)
	}
	var fromMP []*Node
	if err := msgpack.Unmarshal(packed, &fromMP); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	stmts, err = DecodeStmts(fromMP, resolveKey)
	if err != nil {
		t.Fatalf("decode msgpack: %v", err)
	}
	if got := PrintString(stmts, PrintOptions{}); got != want {
		t.Fatalf("msgpack round trip:\n%s\nwant:\n%s", got, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := DecodeStmts([]*Node{{K: "goto"}}, resolveKey); err == nil {
		t.Fatalf("expected unknown kind error")
	}
	_, err := DecodeStmts([]*Node{{K: "expr", A: []*Node{{K: "type", T: "nope"}}}}, resolveKey)
	if err == nil {
		t.Fatalf("expected type resolution error")
	}
}
