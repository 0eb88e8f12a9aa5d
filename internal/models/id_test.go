package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDMarshalKeepsNonCanonicalNumbersQuoted(t *testing.T) {
	cases := map[ID]string{
		"42":    `42`,
		"-3":    `-3`,
		"007":   `"007"`,
		"+5":    `"+5"`,
		"abc-1": `"abc-1"`,
		"":      `null`,
	}
	for id, want := range cases {
		out, err := json.Marshal(id)
		require.NoError(t, err, "id %q", id)
		assert.JSONEq(t, want, string(out), "id %q", id)
	}
}

func TestSessionWithLeadingZeroIDEncodes(t *testing.T) {
	out, err := json.Marshal(Session{UserID: "007", Role: RoleMember})
	require.NoError(t, err)

	var back Session
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, ID("007"), back.UserID)
}

func TestIDUnmarshalAcceptsNumbersAndStrings(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"12","c":null}`), &v))
	assert.Equal(t, ID("12"), v.A)
	assert.Equal(t, v.A, v.B)
	assert.True(t, v.C.IsZero())
}
