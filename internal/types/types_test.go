package types

import "testing"

func TestEqualityAcrossConstructors(t *testing.T) {
	cases := []struct {
		name  string
		a, b  Type
		equal bool
	}{
		{"int-int", Int{}, Int{}, true},
		{"int-bool", Int{}, Bool{}, false},
		{"bag-bag-same-elem", Bag{Elem: Int{}}, Bag{Elem: Int{}}, true},
		{"bag-bag-diff-elem", Bag{Elem: Int{}}, Bag{Elem: Bool{}}, false},
		{"bag-set", Bag{Elem: Int{}}, Set{Elem: Int{}}, false},
		{"handle-same-name", Handle{Name: "Account"}, Handle{Name: "Account"}, true},
		{"handle-diff-name", Handle{Name: "Account"}, Handle{Name: "Order"}, false},
		{"tuple-same", Tuple{Elems: []Type{Int{}, Bool{}}}, Tuple{Elems: []Type{Int{}, Bool{}}}, true},
		{"tuple-diff-arity", Tuple{Elems: []Type{Int{}}}, Tuple{Elems: []Type{Int{}, Bool{}}}, false},
		{"map-same", Map{Key: Int{}, Val: Bool{}}, Map{Key: Int{}, Val: Bool{}}, true},
		{"record-same-fields-diff-name", Record{Name: "A", Fields: map[string]Type{"x": Int{}}}, Record{Name: "B", Fields: map[string]Type{"x": Int{}}}, false},
	}
	for _, c := range cases {
		if got := c.a.Equal(c.b); got != c.equal {
			t.Errorf("%s: Equal = %v, want %v", c.name, got, c.equal)
		}
	}
}

func TestHandleFieldsEquality(t *testing.T) {
	a := Handle{Name: "Account", Fields: map[string]Type{"id": Int{}}}
	b := Handle{Name: "Account", Fields: map[string]Type{"id": Int{}}}
	c := Handle{Name: "Account", Fields: map[string]Type{"id": Bool{}}}
	if !a.Equal(b) {
		t.Fatal("expected identical field schemas to be equal")
	}
	if a.Equal(c) {
		t.Fatal("expected differing field types to be unequal")
	}
}

func TestIsCollectionAndElemType(t *testing.T) {
	if !IsCollection(Bag{Elem: Int{}}) || !IsCollection(Set{Elem: Int{}}) {
		t.Fatal("expected Bag and Set to be collections")
	}
	if IsCollection(Int{}) {
		t.Fatal("expected Int not to be a collection")
	}
	if ElemType(Bag{Elem: Bool{}}) != (Bool{}) {
		t.Fatal("expected ElemType to recover the Bag's element type")
	}
	if ElemType(Int{}) != nil {
		t.Fatal("expected ElemType(Int) to be nil")
	}
}

func TestRecordFieldNamesSorted(t *testing.T) {
	r := Record{Name: "R", Fields: map[string]Type{"z": Int{}, "a": Int{}, "m": Int{}}}
	names := r.FieldNames()
	want := []string{"a", "m", "z"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("expected sorted field names %v, got %v", want, names)
		}
	}
}
