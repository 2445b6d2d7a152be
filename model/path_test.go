package model_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-mapper/model"
)

type parcel struct {
	Größe int
	Maße  dimensions
	Über2 string
	Ключ  string
	ID    int
}

type dimensions struct {
	Höhe   float64
	Breite float64
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{path: "ID"},
		{path: "Address.Street"},
		{path: "_private"},
		{path: "Größe"},
		{path: "Maße.Höhe"},
		{path: "Über2"},
		{path: "Ключ"},
		{path: "", wantErr: true},
		{path: "Address..Street", wantErr: true},
		{path: "2nd", wantErr: true},
		{path: "٣x", wantErr: true},
		{path: "Street-Name", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := model.ValidatePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestLookup_UnicodeMembers(t *testing.T) {
	info := model.NewGraph().FromReflect(reflect.TypeFor[parcel]())

	chain, err := info.Lookup("Maße.Höhe")
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "Höhe", chain[1].Name)

	chain, err = info.Lookup("Größe")
	require.NoError(t, err)
	assert.Equal(t, "Größe", chain[0].Name)
}
