package ext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type widget struct{ name string }

func TestInsertAndLookup(t *testing.T) {
	m := New()
	Insert(m, widget{name: "first"})

	got, err := Lookup[widget](m)
	assert.NoError(t, err)
	assert.Equal(t, "first", got.name)
}

func TestInsertReplacesPriorBinding(t *testing.T) {
	m := New()
	Insert(m, widget{name: "first"})
	Insert(m, widget{name: "second"})

	got, err := Lookup[widget](m)
	assert.NoError(t, err)
	assert.Equal(t, "second", got.name)
}

func TestLookupMissingTypeErrors(t *testing.T) {
	m := New()
	_, err := Lookup[widget](m)
	assert.Error(t, err)
}

func TestLookupIsKeyedByStructuralIdentity(t *testing.T) {
	m := New()
	Insert(m, 42)
	Insert(m, "a string extension")

	n, err := Lookup[int](m)
	assert.NoError(t, err)
	assert.Equal(t, 42, n)

	s, err := Lookup[string](m)
	assert.NoError(t, err)
	assert.Equal(t, "a string extension", s)
}
