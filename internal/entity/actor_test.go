package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Sam", Actor{ID: "u1", Name: "Sam", Email: "sam@x.io"}.DisplayName())
	assert.Equal(t, "sam", Actor{ID: "u1", Email: "sam@x.io"}.DisplayName())
	assert.Equal(t, "u1", Actor{ID: "u1"}.DisplayName())
}

func TestCanAccess(t *testing.T) {
	lead := &Lead{AssignedTo: "u1"}
	assert.True(t, Actor{ID: "u1", Role: RoleUser}.CanAccess(lead))
	assert.False(t, Actor{ID: "u2", Role: RoleUser}.CanAccess(lead))
	assert.True(t, Actor{ID: "u2", Role: RoleAdmin}.CanAccess(lead))
}

func TestRecipientKey(t *testing.T) {
	r, err := RecipientFromKey(string(RecipientRole), AdminBroadcast.Key())
	require.NoError(t, err)
	assert.Equal(t, AdminBroadcast, r)

	r, err = RecipientFromKey(string(RecipientIndividual), "u9")
	require.NoError(t, err)
	assert.Equal(t, Individual("u9"), r)

	_, err = RecipientFromKey("team", "x")
	assert.Error(t, err)
}

func TestLeadPatchApply(t *testing.T) {
	name := "New Name"
	value := 10.5
	l := Lead{Name: "Old", Company: "Acme", Value: 1}

	got := LeadPatch{Name: &name, Value: &value}.Apply(l)

	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, 10.5, got.Value)
	assert.Equal(t, "Old", l.Name)
	assert.True(t, LeadPatch{}.IsEmpty())
}
