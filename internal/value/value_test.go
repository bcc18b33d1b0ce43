package value

import (
	"testing"

	"github.com/cozysynth/cozy/internal/types"
)

func TestBagEqualityIsMultisetNotSequence(t *testing.T) {
	a := Bag{Elem: types.Int{}, Elements: []Value{Int(1), Int(2), Int(1)}}
	b := Bag{Elem: types.Int{}, Elements: []Value{Int(1), Int(1), Int(2)}}
	if !a.Equal(b) {
		t.Fatal("expected bags with the same multiset of elements to be equal regardless of order")
	}
	c := Bag{Elem: types.Int{}, Elements: []Value{Int(1), Int(2)}}
	if a.Equal(c) {
		t.Fatal("expected bags with different multiplicities to be unequal")
	}
}

func TestSetContains(t *testing.T) {
	s := Set{Elem: types.Int{}, Elements: []Value{Int(1), Int(2)}}
	if !s.Contains(Int(1)) {
		t.Fatal("expected Contains to find an existing element")
	}
	if s.Contains(Int(3)) {
		t.Fatal("expected Contains to reject a missing element")
	}
}

func TestMapPutGet(t *testing.T) {
	m := Map{KeyType: types.Int{}, ValType: types.Bool{}}
	m = m.Put(Int(1), Bool(true))
	m = m.Put(Int(2), Bool(false))
	m = m.Put(Int(1), Bool(false)) // overwrite
	if got := m.Get(Int(1), Bool(false)); got != Bool(false) {
		t.Fatalf("expected overwritten value, got %v", got)
	}
	if got := m.Get(Int(99), Bool(true)); got != Bool(true) {
		t.Fatalf("expected default for absent key, got %v", got)
	}
}

func TestHandleEqualityIgnoresFields(t *testing.T) {
	a := Handle{TypeName: "Account", ID: "1", Fields: map[string]Value{"balance": Int(10)}}
	b := Handle{TypeName: "Account", ID: "1", Fields: map[string]Value{"balance": Int(999)}}
	if !a.Equal(b) {
		t.Fatal("expected handle equality to depend only on TypeName+ID")
	}
	c := Handle{TypeName: "Account", ID: "2"}
	if a.Equal(c) {
		t.Fatal("expected different IDs to be unequal")
	}
}

func TestZeroProducesCanonicalZeroValue(t *testing.T) {
	if Zero(types.Int{}) != Int(0) {
		t.Fatal("expected Zero(Int) == Int(0)")
	}
	if Zero(types.Bool{}) != Bool(false) {
		t.Fatal("expected Zero(Bool) == false")
	}
	bag := Zero(types.Bag{Elem: types.Int{}}).(Bag)
	if len(bag.Elements) != 0 {
		t.Fatal("expected Zero(Bag) to be empty")
	}
	h := Zero(types.Handle{Name: "Account", Fields: map[string]types.Type{"id": types.Int{}}}).(Handle)
	if h.Fields["id"] != Int(0) {
		t.Fatalf("expected Zero(Handle) to populate Fields with zero values, got %v", h.Fields)
	}
}

func TestTupleEquality(t *testing.T) {
	a := Tuple{Elems: []Value{Int(1), Bool(true)}}
	b := Tuple{Elems: []Value{Int(1), Bool(true)}}
	c := Tuple{Elems: []Value{Int(1), Bool(false)}}
	if !a.Equal(b) {
		t.Fatal("expected identical tuples to be equal")
	}
	if a.Equal(c) {
		t.Fatal("expected differing tuples to be unequal")
	}
}
