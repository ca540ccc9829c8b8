package registry_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlangtools/jcc/internal/registry"
)

func TestRegisterAssignsMonotonicIDs(t *testing.T) {
	r := registry.New()
	id1, err := r.Register("ns::A", nil)
	require.NoError(t, err)
	id2, err := r.Register("ns::B", nil)
	require.NoError(t, err)
	require.Equal(t, 0, id1)
	require.Equal(t, 1, id2)
}

func TestRegisterDuplicateNameFails(t *testing.T) {
	r := registry.New()
	_, err := r.Register("ns::A", nil)
	require.NoError(t, err)
	_, err = r.Register("ns::A", nil)
	require.Error(t, err)
}

func TestFieldsRoundTrip(t *testing.T) {
	r := registry.New()
	fields := []registry.Field{{Name: "x", TypeName: "int", Count: 1}, {Name: "buf", TypeName: "byte", Count: 8}}
	id, err := r.Register("ns::P", fields)
	require.NoError(t, err)
	require.Equal(t, fields, r.Fields(id))

	name, ok := r.QualifiedName(id)
	require.True(t, ok)
	require.Equal(t, "ns::P", name)
}

func TestClaimMainOnlyOnce(t *testing.T) {
	r := registry.New()
	require.True(t, r.ClaimMain())
	require.False(t, r.ClaimMain())
}

func TestSnapshotRestoreRollsBackRegistrations(t *testing.T) {
	r := registry.New()
	_, err := r.Register("ns::A", nil)
	require.NoError(t, err)

	snap := r.Snapshot()
	_, err = r.Register("ns::B", nil)
	require.NoError(t, err)
	require.Equal(t, 2, r.Count())

	r.Restore(snap)
	require.Equal(t, 1, r.Count())
	_, ok := r.TypeID("ns::B")
	require.False(t, ok)

	// B can be re-registered after rollback without colliding.
	id, err := r.Register("ns::B", nil)
	require.NoError(t, err)
	require.Equal(t, 1, id)
}

func TestConcurrentRegisterIsSafe(t *testing.T) {
	r := registry.New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = r.Register("ns::T"+strconv.Itoa(i), nil)
		}(i)
	}
	wg.Wait()
	require.Equal(t, 50, r.Count())
}
